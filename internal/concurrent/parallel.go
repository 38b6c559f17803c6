package concurrent

import (
	"context"
	"sync"
)

// Result represents the result of a parallel operation
type Result[T any] struct {
	Value T
	Error error
	Index int // Original index in the input slice
}

// Task represents a function to be executed in parallel
type Task[T any] func(ctx context.Context) (T, error)

// ParallelExecute executes tasks in parallel and returns all results
// It waits for all tasks to complete, even if some fail
func ParallelExecute[T any](ctx context.Context, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(index int, t Task[T]) {
			defer wg.Done()
			value, err := t(ctx)
			results[index] = Result[T]{
				Value: value,
				Error: err,
				Index: index,
			}
		}(i, task)
	}

	wg.Wait()
	return results
}
