package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builders.
type eventRepo struct {
	drv *entsql.Driver
}

func (r *eventRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.drv.Dialect())
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	query, args := r.builder().
		Insert(llmEventsTable).
		Columns(columnNames()[1:]...).
		Values(
			time.Now().UnixMilli(),
			data.SessionID,
			data.Provider,
			data.Model,
			data.Purpose,
			data.Mode,
			data.InputTokens,
			data.OutputTokens,
			data.LatencyMs,
			data.ResponseLen,
			data.Success,
			data.ErrorMessage,
		).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	b := r.builder()
	t := b.Table(llmEventsTable)
	sel := b.Select(qualified(t, columnNames())...).
		From(t).
		OrderBy(entsql.Desc(t.C(colID)))
	if opts.Purpose != "" {
		sel.Where(entsql.EQ(t.C(colPurpose), opts.Purpose))
	}
	if opts.Session != "" {
		sel.Where(entsql.EQ(t.C(colSessionID), opts.Session))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	events, err := r.queryEvents(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return events, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	b := r.builder()
	t := b.Table(llmEventsTable)
	sel := b.Select(qualified(t, columnNames())...).
		From(t).
		Where(entsql.EQ(t.C(colID), id)).
		Limit(1)

	events, err := r.queryEvents(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	b := r.builder()
	t := b.Table(llmEventsTable)
	sel := b.Select(
		t.C(colPurpose),
		entsql.Count("*"),
		entsql.Sum("1 - "+t.C(colSuccess)),
		entsql.Sum(t.C(colInputTokens)),
		entsql.Sum(t.C(colOutputTokens)),
		"CAST(AVG("+t.C(colLatencyMs)+") AS INTEGER)",
	).
		From(t).
		GroupBy(t.C(colPurpose)).
		OrderBy(t.C(colPurpose))

	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []PurposeUsage
	for rows.Next() {
		var u PurposeUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.Failures, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan purpose usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	b := r.builder()
	t := b.Table(llmEventsTable)
	sel := b.Select(
		t.C(colModel),
		entsql.Count("*"),
		entsql.Sum(t.C(colInputTokens)),
		entsql.Sum(t.C(colOutputTokens)),
	).
		From(t).
		Where(entsql.EQ(t.C(colSuccess), true)).
		GroupBy(t.C(colModel)).
		OrderBy(t.C(colModel))

	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan model usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) query(ctx context.Context, sel *entsql.Selector) (*entsql.Rows, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *eventRepo) queryEvents(ctx context.Context, sel *entsql.Selector) ([]LLMRequestEvent, error) {
	rows, err := r.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		var (
			e    LLMRequestEvent
			tsMs int64
		)
		err := rows.Scan(&e.ID, &tsMs, &e.SessionID, &e.Provider, &e.Model, &e.Purpose, &e.Mode,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.ResponseLen, &e.Success, &e.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		e.Timestamp = time.UnixMilli(tsMs)
		out = append(out, e)
	}
	return out, rows.Err()
}

func qualified(t *entsql.SelectTable, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = t.C(c)
	}
	return out
}
