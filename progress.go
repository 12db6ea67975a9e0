package main

import (
	"fmt"
	"io"
	"strings"
)

const progressWidth = 40

// progressBar 在一行中重绘进度，结束时清除该行
type progressBar struct {
	w       io.Writer
	total   int
	current int
	enabled bool
	drawn   int
}

func newProgressBar(w io.Writer, total int, enabled bool) *progressBar {
	return &progressBar{w: w, total: total, enabled: enabled}
}

func (b *progressBar) Add(n int) {
	b.current += n
	if !b.enabled || b.total <= 0 {
		return
	}
	filled := min(b.current, b.total) * progressWidth / b.total
	line := fmt.Sprintf("[%s%s] %d/%d",
		strings.Repeat("#", filled), strings.Repeat("-", progressWidth-filled), b.current, b.total)
	fmt.Fprint(b.w, "\r"+line)
	b.drawn = len(line)
}

func (b *progressBar) Finish() {
	if b.drawn > 0 {
		fmt.Fprint(b.w, "\r"+strings.Repeat(" ", b.drawn)+"\r")
		b.drawn = 0
	}
}

// Drain 读取 ch 直到关闭。不显示进度时也会读完通道
func (b *progressBar) Drain(ch <-chan int) {
	for n := range ch {
		b.Add(n)
	}
	b.Finish()
}
