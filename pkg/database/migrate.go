package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup. Every statement is idempotent so repeated
// starts against the same database are safe.
const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS documents (
	id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	filename     text NOT NULL,
	text_content text NOT NULL,
	char_count   integer NOT NULL,
	chunk_count  integer,
	created_at   timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS chunks (
	id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	document_id uuid NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	chunk_index integer NOT NULL,
	text        text NOT NULL,
	embedding   vector(1536) NOT NULL,
	created_at  timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);

CREATE TABLE IF NOT EXISTS summaries (
	id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	document_id   uuid NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	model         text NOT NULL,
	content       text NOT NULL,
	latency_ms    integer NOT NULL,
	input_tokens  integer,
	output_tokens integer,
	truncated     boolean NOT NULL DEFAULT false,
	created_at    timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_summaries_document_id ON summaries(document_id);

CREATE TABLE IF NOT EXISTS queries (
	id                uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	document_id       uuid NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	question          text NOT NULL,
	claude_response   text NOT NULL,
	claude_latency_ms integer NOT NULL,
	openai_response   text NOT NULL,
	openai_latency_ms integer NOT NULL,
	chunks_used       jsonb NOT NULL DEFAULT '[]'::jsonb,
	created_at        timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_queries_document_id ON queries(document_id);

CREATE TABLE IF NOT EXISTS feedback (
	id             uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	reference_type text NOT NULL,
	reference_id   uuid NOT NULL,
	model          text NOT NULL,
	rating         text NOT NULL,
	created_at     timestamptz NOT NULL DEFAULT now(),
	updated_at     timestamptz NOT NULL DEFAULT now(),
	UNIQUE (reference_type, reference_id, model)
);

CREATE TABLE IF NOT EXISTS comparisons (
	id             uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	reference_type text NOT NULL,
	reference_id   uuid NOT NULL,
	winner         text NOT NULL,
	created_at     timestamptz NOT NULL DEFAULT now(),
	updated_at     timestamptz NOT NULL DEFAULT now(),
	UNIQUE (reference_type, reference_id)
);
`

// Migrate applies the embedded schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}
