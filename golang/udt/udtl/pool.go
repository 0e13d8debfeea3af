package udtl

import "sync"

//Task is a unit of work executed by a Pool.
type Task interface {
	Run()
}

//TaskFindBestSplit scans one attribute and stores the result in its slot.
type TaskFindBestSplit struct {
	result        []SplitResult
	attr          int
	bestSplitFunc func(int) SplitResult
}

func (task *TaskFindBestSplit) Run() {
	task.result[task.attr] = task.bestSplitFunc(task.attr)
}

//Pool runs tasks on a fixed number of goroutines.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup
}

//NewPool starts threadsNum workers.
func NewPool(threadsNum int) *Pool {
	if threadsNum < 1 {
		threadsNum = 1
	}
	pool := &Pool{tasks: make(chan Task, threadsNum)}
	pool.wg.Add(threadsNum)
	for ind := 0; ind < threadsNum; ind++ {
		go func() {
			defer pool.wg.Done()
			for task := range pool.tasks {
				task.Run()
			}
		}()
	}
	return pool
}

func (pool *Pool) AddTask(task Task) {
	pool.tasks <- task
}

//Close stops accepting tasks. Workers finish the queued ones.
func (pool *Pool) Close() {
	close(pool.tasks)
}

func (pool *Pool) WaitAll() {
	pool.wg.Wait()
}
