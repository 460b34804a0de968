package seed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/forgo/factory/pkg/factory"
)

// ErrUnknownScenario is returned by Run for an unregistered scenario name.
var ErrUnknownScenario = errors.New("unknown scenario")

// Result contains the records a scenario made.
type Result struct {
	Created  int
	Records  []*factory.Record
	Duration time.Duration
}

func (r *Result) add(recs ...*factory.Record) {
	r.Records = append(r.Records, recs...)
	r.Created += len(recs)
}

type scenarioFunc func(ctx context.Context, f *factory.Factory, res *Result) error

var scenarios = map[string]scenarioFunc{
	// 20 users with public profiles for discovery testing
	"sf_discovery_pool": func(ctx context.Context, f *factory.Factory, res *Result) error {
		users, err := f.MakeList(ctx, "user", 20, "with_profile")
		if err != nil {
			return err
		}
		res.add(users...)
		return nil
	},

	// a guild with 10 members and 5 events
	"active_guild": func(ctx context.Context, f *factory.Factory, res *Result) error {
		return guildWithEvents(ctx, f, res, 10, 5, false)
	},

	// one event with 20 attendees for testing RSVPs
	"event_with_attendees": func(ctx context.Context, f *factory.Factory, res *Result) error {
		return guildWithEvents(ctx, f, res, 20, 1, true)
	},
}

// Scenarios returns the scenario names, sorted.
func Scenarios() []string {
	out := make([]string, 0, len(scenarios))
	for name := range scenarios {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Run makes the named scenario through f, which must have the seed
// definitions registered and a store configured.
func Run(ctx context.Context, f *factory.Factory, name string) (*Result, error) {
	fn, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}

	start := time.Now()
	res := &Result{}
	if err := fn(ctx, f, res); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", name, err)
	}
	res.Duration = time.Since(start)
	return res, nil
}

func guildWithEvents(ctx context.Context, f *factory.Factory, res *Result, members, events int, attend bool) error {
	users, err := f.MakeList(ctx, "user", members)
	if err != nil {
		return err
	}
	res.add(users...)

	ids := recordIDs(users)
	g, err := f.Make(ctx, "guild", factory.Attrs{"member_ids": ids})
	if err != nil {
		return err
	}
	res.add(g)

	overrides := factory.Attrs{"guild_id": g.ID}
	if attend {
		overrides["attendee_ids"] = ids
	}
	evs, err := f.MakeList(ctx, "event", events, overrides)
	if err != nil {
		return err
	}
	res.add(evs...)
	return nil
}

func recordIDs(recs []*factory.Record) []any {
	ids := make([]any, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	return ids
}
