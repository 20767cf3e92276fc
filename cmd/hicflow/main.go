// hicflow — оркестратор конвейера выравнивания парных чтений.
//
// Использование:
//
//	hicflow run --genome hg19 --site HindIII --top-dir /data/run1
//
// Команда run строит граф задач и отправляет его планировщику за
// один проход. Скрытые команды dedup, reconcile и record вызываются
// самим графом на узлах кластера.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/hicflow/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "hicflow",
		Short:         "hicflow — genome alignment workflow orchestrator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		cli.NewRunCmd(),
		cli.NewDedupCmd(),
		cli.NewReconcileCmd(),
		cli.NewRecordCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode выводит код выхода процесса из ошибки. Ошибки конфигурации
// и preflight несут собственные коды (>= 100), остальные — 1.
func exitCode(err error) int {
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return 1
}
