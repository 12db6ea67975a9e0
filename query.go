package main

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"atlaspack/rectpack"
)

const rulerWidth = 72

type queryResult struct {
	opts       Options
	pages      int
	size       rectpack.Size
	efficiency float64
}

// query 使用排序方式、放置方法和旋转的所有组合打包，按利用率输出对比结果
func query(opts Options, w io.Writer) error {
	var results []queryResult
	for _, o := range queryCombinations(opts) {
		logger.Info("packing", slog.String("settings", describeSettings(o)))
		packer, err := packTextures(o, discardLogger(), nil)
		if err != nil {
			return err
		}
		results = append(results, queryResult{
			opts:       o,
			pages:      len(packer.Pages()),
			size:       packer.PageSize(),
			efficiency: packer.Efficiency(),
		})
	}
	slices.SortStableFunc(results, func(a, b queryResult) int {
		return cmp.Compare(b.efficiency, a.efficiency)
	})
	_, err := io.WriteString(w, formatQueryReport(results))
	return err
}

// queryCombinations 生成 2x2x2 种参数组合，其余参数与 opts 相同
func queryCombinations(opts Options) []Options {
	base := Options{
		Sources:  opts.Sources,
		Output:   "query",
		Spacing:  opts.Spacing,
		PageSize: opts.PageSize,
		NoDedup:  opts.NoDedup,
	}
	var r []Options
	for _, short := range []bool{false, true} {
		for _, area := range []bool{false, true} {
			for _, rotate := range []bool{false, true} {
				o := base
				o.ShortSide, o.ByArea, o.Rotate = short, area, rotate
				r = append(r, o)
			}
		}
	}
	return r
}

func describeSettings(o Options) string {
	sorting, method, rotation := "long side", "distance", "no rotation"
	if o.ShortSide {
		sorting = "short side"
	}
	if o.ByArea {
		method = "area"
	}
	if o.Rotate {
		rotation = "rotation"
	}
	return fmt.Sprintf("%s, %s, %s", sorting, method, rotation)
}

func describeArgs(o Options) string {
	var b strings.Builder
	if o.ShortSide {
		b.WriteString("-short ")
	}
	if o.ByArea {
		b.WriteString("-area ")
	}
	if o.Rotate {
		b.WriteString("-rotate ")
	}
	return b.String()
}

func formatQueryReport(results []queryResult) string {
	ruler := strings.Repeat("-", rulerWidth) + "\n"
	var b strings.Builder
	fmt.Fprintf(&b, "\n%-40s%16s%16s\n", "SETTINGS", "SIZE", "EFFICIENCY")
	b.WriteString(ruler)
	for _, r := range results {
		fmt.Fprintf(&b, "%-40s%16s%16s\n",
			describeSettings(r.opts),
			fmt.Sprintf("%dp, %s", r.pages, r.size),
			fmt.Sprintf("%.2f%%", r.efficiency))
	}
	b.WriteString(ruler)
	if len(results) == 0 {
		return b.String()
	}
	b.WriteString("for the most efficient packing of these sources, use this command:\n")
	fmt.Fprintf(&b, "\tatlaspack pack %s[sources] [output]\n\n", describeArgs(results[0].opts))
	if i := slices.IndexFunc(results, func(r queryResult) bool { return !r.opts.Rotate }); i >= 0 {
		b.WriteString("if texture rotation is not allowed, use this command:\n")
		fmt.Fprintf(&b, "\tatlaspack pack %s[sources] [output]\n", describeArgs(results[i].opts))
	}
	b.WriteString(ruler)
	return b.String()
}
