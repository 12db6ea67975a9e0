package rectpack

import (
	"errors"
	"fmt"
)

// ErrWorkerFailed 表示后台打包 goroutine 异常退出，与普通的打包失败区分开。
var ErrWorkerFailed = errors.New("failed to join threads")

type jobResult struct {
	packer *Packer
	err    error
}

// Job 是一次在后台 goroutine 中执行的打包任务。
type Job struct {
	progress chan int
	done     chan jobResult
}

// StartPacking 将 p 的所有权转交给一个新的 goroutine 并在其中执行
// PackEverything。调用者在 Wait 返回之前不得再访问 p。
//
// 进度通道的容量等于非副本纹理的数量，后台任务发送进度时永远不会阻塞，
// 调用者可以选择不读取进度。任务结束时进度通道被关闭。
func StartPacking(p *Packer) *Job {
	j := &Job{
		progress: make(chan int, p.pendingOriginals()),
		done:     make(chan jobResult, 1),
	}
	go j.run(p)
	return j
}

func (j *Job) run(p *Packer) {
	result := jobResult{}
	defer func() {
		if r := recover(); r != nil {
			result = jobResult{err: fmt.Errorf("%w: %v", ErrWorkerFailed, r)}
		}
		close(j.progress)
		j.done <- result
	}()
	if err := p.PackEverything(j.progress); err != nil {
		result.err = err
		return
	}
	result.packer = p
}

// Progress 返回进度通道，每个元素表示又放置了一个纹理。
func (j *Job) Progress() <-chan int {
	return j.progress
}

// Wait 阻塞直到后台任务结束，成功时归还 Packer 的所有权。
// 只能调用一次。
func (j *Job) Wait() (*Packer, error) {
	r := <-j.done
	return r.packer, r.err
}
