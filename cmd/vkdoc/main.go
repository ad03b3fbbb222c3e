package main

import (
	"fmt"
	"os"

	"github.com/teranos/vkdoc/cmd/vkdoc/commands"
	"github.com/teranos/vkdoc/errors"
	"github.com/teranos/vkdoc/logger"
)

func main() {
	err := commands.Execute()
	logger.Cleanup()
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintln(os.Stderr, "Hint:", hint)
	}
	os.Exit(1)
}
