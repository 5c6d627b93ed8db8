package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/logbook"
	"github.com/Ekam-Bitt/eld-trip-planner-public/internal/timecalc"
)

// rangeFlags are the --today/--week/--date/--from/--to flags shared by the
// reporting commands.
type rangeFlags struct {
	today bool
	week  bool
	cycle bool
	date  string
	from  string
	to    string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.today, "today", false, "Only today")
	cmd.Flags().BoolVar(&f.week, "week", false, "This ISO week")
	cmd.Flags().BoolVar(&f.cycle, "cycle", false, "The eight days ending today")
	cmd.Flags().StringVar(&f.date, "date", "", "A specific date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.from, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	cmd.Flags().StringVar(&f.to, "to", "", "End date (YYYY-MM-DD); defaults to today")
}

// defaultRange picks the range of a command when no flag is given.
type defaultRange func(now time.Time) (time.Time, time.Time)

func todayRange(now time.Time) (time.Time, time.Time) {
	return timecalc.StartOfDay(now), timecalc.EndOfDay(now)
}

// resolve turns the flags into a local day range.
func (f *rangeFlags) resolve(s *logbook.Service, def defaultRange) (time.Time, time.Time, error) {
	now := s.Now()
	switch {
	case f.date != "":
		return s.ParseRange(f.date, f.date)
	case f.from != "" || f.to != "":
		if f.from == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: --from is required when --to is specified", logbook.ErrValidation)
		}
		to := f.to
		if to == "" {
			to = now.Format(timecalc.DayLayout)
		}
		return s.ParseRange(f.from, to)
	case f.today:
		from, to := todayRange(now)
		return from, to, nil
	case f.week:
		from, to := timecalc.WeekRange(now)
		return from, to, nil
	case f.cycle:
		from, to := timecalc.CycleRange(now)
		return from, to, nil
	}
	from, to := def(now)
	return from, to, nil
}
