package system

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-ps"

	"github.com/tally-app/tally-cli/internal/cli"
	"github.com/tally-app/tally-cli/internal/constants"
	"github.com/tally-app/tally-cli/internal/keyring"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: config directory writable
	if err := checkConfigDir(ctx); err != nil {
		fmt.Printf("❌ Config directory: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Config directory: OK\n")
	}

	// Check 2: local cache opens
	if err := checkCache(ctx); err != nil {
		fmt.Printf("❌ Local cache: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Local cache: OK\n")
	}

	// Check 3: session token present (warning only)
	if err := checkToken(); err != nil {
		fmt.Printf("⚠ Session token: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Session token: OK\n")
	}

	// Check 4: API reachable
	if err := checkAPI(ctx); err != nil {
		fmt.Printf("❌ API reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ API reachable: OK\n")
	}

	// Check 5: duplicate running process (warning only)
	if err := checkDuplicateProcess(); err != nil {
		fmt.Printf("⚠ Single instance: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Single instance: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkConfigDir(ctx *cli.Context) error {
	if err := os.MkdirAll(ctx.ConfigDir, 0755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(ctx.ConfigDir, "doctor-*")
	if err != nil {
		return fmt.Errorf("config directory is not writable: %w", err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}

func checkCache(ctx *cli.Context) error {
	if ctx.Cache == nil {
		return fmt.Errorf("cache is not configured")
	}
	_, err := ctx.Cache.Load()
	return err
}

func checkToken() error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available")
	}
	if _, err := keyring.GetToken(); err != nil {
		return fmt.Errorf("no session token stored; run 'tally login'")
	}
	return nil
}

func checkAPI(ctx *cli.Context) error {
	reqCtx, cancel := ctx.RequestContext()
	defer cancel()
	return ctx.Client.Ping(reqCtx)
}

func checkDuplicateProcess() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("could not enumerate processes: %w", err)
	}
	self := os.Getpid()
	for _, p := range procs {
		if p.Pid() != self && p.Executable() == constants.AppName {
			return fmt.Errorf("another %s process is running (pid %d)", constants.AppName, p.Pid())
		}
	}
	return nil
}
