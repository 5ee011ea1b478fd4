// Command todo-tui runs the task list in the terminal against an in-process store.
// Tasks live only for the lifetime of the process.
package main

import (
	"log"

	"github.com/example/todo-list-demo/domain/task"
	"github.com/example/todo-list-demo/tui"
)

func main() {
	store := task.NewStore()

	if err := tui.Run(store); err != nil {
		log.Fatalf("todo-tui: %v", err)
	}
}
