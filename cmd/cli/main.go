package main

import (
	"fmt"
	"os"

	"github.com/crucial707/family-tree-api/cmd/cli/auth"
	"github.com/crucial707/family-tree-api/cmd/cli/root"
	"github.com/crucial707/family-tree-api/cmd/cli/trees"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	trees.InitTrees(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
