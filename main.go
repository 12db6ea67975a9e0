package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"atlaspack/rectpack"
)

const (
	VERSION = "0.2.0"
)

var (
	errUsage            = errors.New("usage: atlaspack <pack|unpack|query> [arguments]")
	errMissingArguments = errors.New("missing arguments")
)

var (
	// logger 在 run 中根据 -q 和 -debug 重新创建，测试中默认丢弃所有输出
	logger    = discardLogger()
	debugInfo DebugInfo
)

// DebugInfo 记录各阶段耗时，-debug 时输出
type DebugInfo struct {
	IsDebug               bool
	TotalTime             time.Duration
	ScanTime              time.Duration
	PackTime              time.Duration
	CreateAtlasImageTime  time.Duration
	CreateDescriptionTime time.Duration
	UnpackTime            time.Duration
}

// track 返回一个函数，调用时将经过的时间累加到 field
func (d *DebugInfo) track(field *time.Duration) func() {
	start := time.Now()
	return func() {
		*field += time.Since(start)
	}
}

func (d *DebugInfo) report() {
	if !d.IsDebug {
		return
	}
	logger.Debug("timings",
		slog.Duration("scan", d.ScanTime),
		slog.Duration("pack", d.PackTime),
		slog.Duration("images", d.CreateAtlasImageTime),
		slog.Duration("description", d.CreateDescriptionTime),
		slog.Duration("unpack", d.UnpackTime),
		slog.Duration("total", d.TotalTime))
}

// Options 是 pack 和 query 命令的参数
type Options struct {
	Sources    []string // 源文件或目录
	Output     string   // 输出文件名，例如 out/atlas 会生成 out/atlas.png 和 out/atlas.json
	Overwrite  bool     // 覆盖已存在的文件
	Spacing    int      // 纹理间距
	PageSize   string   // 固定页面尺寸，例如 1024x1024
	Format     string   // 描述文件格式 json 或 text
	Quiet      bool     // 不输出任何信息
	Debug      bool     // 输出调试日志和耗时
	ByArea     bool     // 按面积而非距离选择空闲矩形
	ShortSide  bool     // 按最短边排序
	Rotate     bool     // 允许旋转90度
	PowerOfTwo bool     // 输出2的幂尺寸的图片
	NoDedup    bool     // 不合并重复的图片
}

// UnpackOptions 是 unpack 命令的参数
type UnpackOptions struct {
	Description string // 描述文件
	OutputDir   string // 输出目录
	Overwrite   bool
	Quiet       bool
	Debug       bool
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newLogger 创建命令行使用的日志记录器，不输出时间
func newLogger(w io.Writer, quiet, debug bool) *slog.Logger {
	if quiet {
		return discardLogger()
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// parseInterleaved 允许参数和位置参数混合出现，例如 "pack src out -o"
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func packFlags(name string, opts *Options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.IntVar(&opts.Spacing, "s", 0, "纹理间距(像素)")
	fs.StringVar(&opts.PageSize, "p", "", "固定页面尺寸, 例如 1024x1024")
	fs.BoolVar(&opts.NoDedup, "no-dedup", false, "不合并重复的图片")
	return fs
}

func parsePackArgs(args []string) (Options, error) {
	var opts Options
	fs := packFlags("pack", &opts)
	fs.BoolVar(&opts.Overwrite, "o", false, "覆盖已存在的文件")
	fs.StringVar(&opts.Format, "f", "json", "描述文件格式 (json, text)")
	fs.BoolVar(&opts.Quiet, "q", false, "安静模式")
	fs.BoolVar(&opts.Debug, "debug", false, "输出调试信息")
	fs.BoolVar(&opts.ByArea, "area", false, "按面积而非距离放置")
	fs.BoolVar(&opts.ShortSide, "short", false, "按最短边排序")
	fs.BoolVar(&opts.Rotate, "rotate", false, "允许旋转90度")
	fs.BoolVar(&opts.PowerOfTwo, "po2", false, "输出2的幂尺寸的图片")
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return opts, err
	}
	if len(positional) < 2 {
		return opts, fmt.Errorf("%w: pack <sources...> <output>", errMissingArguments)
	}
	opts.Sources = positional[:len(positional)-1]
	opts.Output = positional[len(positional)-1]
	return opts, nil
}

func parseQueryArgs(args []string) (Options, error) {
	var opts Options
	fs := packFlags("query", &opts)
	fs.BoolVar(&opts.Debug, "debug", false, "输出调试信息")
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return opts, err
	}
	if len(positional) == 0 {
		return opts, fmt.Errorf("%w: query <sources...>", errMissingArguments)
	}
	opts.Sources = positional
	return opts, nil
}

func parseUnpackArgs(args []string) (UnpackOptions, error) {
	var opts UnpackOptions
	fs := flag.NewFlagSet("unpack", flag.ContinueOnError)
	fs.BoolVar(&opts.Overwrite, "o", false, "覆盖已存在的文件")
	fs.BoolVar(&opts.Quiet, "q", false, "安静模式")
	fs.BoolVar(&opts.Debug, "debug", false, "输出调试信息")
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return opts, err
	}
	if len(positional) != 2 {
		return opts, fmt.Errorf("%w: unpack <description> <output-dir>", errMissingArguments)
	}
	opts.Description, opts.OutputDir = positional[0], positional[1]
	return opts, nil
}

// run 执行一个子命令。日志写入 stdout，进度条写入 stderr
func run(args []string, stdout, stderr io.Writer) error {
	start := time.Now()
	debugInfo = DebugInfo{}
	if len(args) == 0 {
		return errUsage
	}

	var (
		quiet, debug bool
		exec         func() error
	)
	switch args[0] {
	case "pack":
		opts, err := parsePackArgs(args[1:])
		if err != nil {
			return err
		}
		quiet, debug = opts.Quiet, opts.Debug
		exec = func() error { return pack(opts, stderr) }
	case "unpack":
		opts, err := parseUnpackArgs(args[1:])
		if err != nil {
			return err
		}
		quiet, debug = opts.Quiet, opts.Debug
		exec = func() error { return unpack(opts, stderr) }
	case "query":
		opts, err := parseQueryArgs(args[1:])
		if err != nil {
			return err
		}
		debug = opts.Debug
		exec = func() error { return query(opts, stdout) }
	case "version":
		fmt.Fprintln(stdout, VERSION)
		return nil
	default:
		return fmt.Errorf("%w: unknown command '%s'", errUsage, args[0])
	}

	logger = newLogger(stdout, quiet, debug)
	debugInfo.IsDebug = debug
	if debug {
		rectpack.SetLogger(logger)
		defer rectpack.SetLogger(nil)
	}

	if err := exec(); err != nil {
		return err
	}
	debugInfo.TotalTime = time.Since(start)
	debugInfo.report()
	logger.Info(fmt.Sprintf("finished in %.3f seconds.", debugInfo.TotalTime.Seconds()))
	return nil
}

func main() {
	logger = newLogger(os.Stdout, false, false)
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}
}
