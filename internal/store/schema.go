package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	llmEventsTable = "llm_request_events"

	colID           = "id"
	colTimestamp    = "ts_ms"
	colSessionID    = "session_id"
	colProvider     = "provider"
	colModel        = "model"
	colPurpose      = "purpose"
	colMode         = "mode"
	colInputTokens  = "input_tokens"
	colOutputTokens = "output_tokens"
	colLatencyMs    = "latency_ms"
	colResponseLen  = "response_len"
	colSuccess      = "success"
	colErrorMessage = "error_message"
)

var (
	// llmEventColumns is in scan order.
	llmEventColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colTimestamp, Type: field.TypeInt64},
		{Name: colSessionID, Type: field.TypeString, Default: ""},
		{Name: colProvider, Type: field.TypeString},
		{Name: colModel, Type: field.TypeString},
		{Name: colPurpose, Type: field.TypeString},
		{Name: colMode, Type: field.TypeString},
		{Name: colInputTokens, Type: field.TypeInt, Default: 0},
		{Name: colOutputTokens, Type: field.TypeInt, Default: 0},
		{Name: colLatencyMs, Type: field.TypeInt64, Default: 0},
		{Name: colResponseLen, Type: field.TypeInt, Default: 0},
		{Name: colSuccess, Type: field.TypeBool},
		{Name: colErrorMessage, Type: field.TypeString, Default: ""},
	}

	llmEventsSchema = &schema.Table{
		Name:       llmEventsTable,
		Columns:    llmEventColumns,
		PrimaryKey: []*schema.Column{llmEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventColumns[5]}},
			{Name: "llmrequestevent_session_id", Columns: []*schema.Column{llmEventColumns[2]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{llmEventColumns[11]}},
		},
	}

	tables = []*schema.Table{llmEventsSchema}
)

// migrate creates or upgrades the schema in place.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}

func columnNames() []string {
	names := make([]string, len(llmEventColumns))
	for i, c := range llmEventColumns {
		names[i] = c.Name
	}
	return names
}
