// generate 从数据库读取名册与愿望，生成一个月的排班计划
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/paiban/schichtplan/internal/config"
	"github.com/paiban/schichtplan/internal/database"
	"github.com/paiban/schichtplan/internal/repository"
	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/logger"
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler"
	"github.com/paiban/schichtplan/pkg/scheduler/input"
)

type options struct {
	month     string
	dryRun    bool
	kennungen string
	jsonOut   bool
	envFile   string
}

func main() {
	var opts options
	flag.StringVar(&opts.month, "month", "", "计划月份 YYYY-MM（默认下个月）")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "只生成不保存")
	flag.StringVar(&opts.kennungen, "kennung", "", "只为这些员工排班，逗号分隔")
	flag.BoolVar(&opts.jsonOut, "json", false, "以 JSON 输出结果")
	flag.StringVar(&opts.envFile, "env", ".env", "环境变量文件")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		if apperrors.Is(err, apperrors.CodeNoFeasibleSolution) {
			fmt.Fprintln(os.Stderr, apperrors.GetDetails(err))
		}
		logger.Error().Err(err).Msg("生成失败")
		os.Exit(1)
	}
}

// parseMonth 解析 YYYY-MM；为空时取 now 的下个月
func parseMonth(s string, now time.Time) (int, time.Month, error) {
	if s == "" {
		next := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return next.Year(), next.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("月份格式应为 YYYY-MM: %q", s)
	}
	return t.Year(), t.Month(), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.LoadFiles(opts.envFile)
	if err != nil {
		return err
	}
	logger.Init(logger.Config{Level: cfg.App.LogLevel, Format: "console", Output: "stderr", TimeFormat: time.RFC3339})

	year, month, err := parseMonth(opts.month, time.Now())
	if err != nil {
		return apperrors.New(apperrors.CodeInvalidInput, err.Error())
	}
	horizon := model.MonthHorizon(year, month)

	db, err := database.New(&cfg.Database)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "连接数据库失败")
	}
	defer db.Close()

	loader := repository.NewLoader(db)
	req, err := loader.Request(ctx, repository.Query{
		Start:       horizon.Start(),
		End:         horizon.End(),
		Kennungen:   splitList(opts.kennungen),
		ShiftCodes:  cfg.Scheduler.ShiftCodes,
		HistoryDays: cfg.Scheduler.HistoryDays,
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "读取排班数据失败")
	}
	coverage := cfg.Scheduler.Coverage()
	prefs := cfg.Scheduler.PreferenceConfig()
	req.Coverage = &coverage
	req.Preferences = &prefs
	req.FallbackHours = cfg.Scheduler.FallbackHours

	p, err := input.Assemble(ctx, req)
	if err != nil {
		return err
	}

	genOpts, err := cfg.Scheduler.GeneratorOptions()
	if err != nil {
		return err
	}
	result, err := scheduler.NewGenerator(genOpts).Generate(ctx, p)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printPlan(out, p, result)
	}

	if opts.dryRun {
		logger.Info().Msg("dry-run：计划未保存")
		return nil
	}
	if err := loader.Plans.Save(ctx, p, result); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "保存计划失败")
	}
	logger.Info().Str("plan_id", result.ID.String()).Msg("计划已保存")
	return nil
}

// printPlan 以员工 × 日期的表格输出计划与统计
func printPlan(out io.Writer, p *model.Problem, result *scheduler.Result) {
	fmt.Fprintf(out, "计划 %s  %s ~ %s  状态 %s  目标值 %.0f  耗时 %s\n\n",
		result.ID, p.Horizon.Start().Format(model.DateLayout), p.Horizon.End().Format(model.DateLayout),
		result.Status, result.Objective, result.Duration.Round(time.Millisecond))

	tw := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	fmt.Fprint(tw, "Kennung\t")
	for _, day := range p.Horizon.Days {
		fmt.Fprintf(tw, "%s\t", model.WeekdayNames[day.Weekday]+day.Key[8:])
	}
	fmt.Fprintln(tw, "T\tN\tZ\tSoll\tΔ\t")
	for e, emp := range p.Employees {
		fmt.Fprintf(tw, "%s\t", emp.Kennung)
		for d := range p.Horizon.Days {
			k := result.Plan.Get(e, d)
			cell := string(k)
			if k == model.KindFree {
				cell = "."
			}
			fmt.Fprintf(tw, "%s\t", cell)
		}
		st := result.Stats.Employees[e]
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%+d\t\n", st.Day, st.Night, st.Extra, st.TargetShifts, st.Deviation)
	}
	tw.Flush()

	f := result.Stats.Fairness
	fmt.Fprintf(out, "\n公平性 Gini: T %.3f  N %.3f  周末 %.3f\n", f.DayGini, f.NightGini, f.WeekendGini)
	fmt.Fprintf(out, "愿望未满足 %d，愿望惩罚 %d\n", result.Stats.Violations(), result.Stats.WishPenalty)
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "警告: %s\n", w)
	}
}
