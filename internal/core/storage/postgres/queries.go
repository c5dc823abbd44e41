package postgres

// SQL queries for counter storage.

const (
	// queryLoadCounter reads one counter. No row means the counter was never stored.
	queryLoadCounter = `
		SELECT views
		FROM page_views
		WHERE key = $1
	`

	// queryStoreCounter upserts the absolute value computed by the owning actor.
	// The actor holds the only writer slot for the key, so last-write-wins is safe here.
	queryStoreCounter = `
		INSERT INTO page_views (key, views, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET views = EXCLUDED.views,
		    updated_at = EXCLUDED.updated_at
	`

	queryTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'page_views'
		)
	`
)
