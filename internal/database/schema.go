package database

// Schema 员工、愿望、目标工时、班次类型与计划表
const Schema = `
CREATE TABLE IF NOT EXISTS mitarbeiter (
	id          UUID PRIMARY KEY,
	kennung     TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL DEFAULT '',
	preferences JSONB NOT NULL DEFAULT '{}'::jsonb,
	active      BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS wuensche (
	mitarbeiter_id UUID NOT NULL REFERENCES mitarbeiter(id),
	datum          DATE NOT NULL,
	art            TEXT NOT NULL,
	genehmigt      BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (mitarbeiter_id, datum, art)
);

CREATE TABLE IF NOT EXISTS sollstunden (
	mitarbeiter_id UUID NOT NULL REFERENCES mitarbeiter(id),
	jahr           INT NOT NULL,
	monat          INT NOT NULL CHECK (monat BETWEEN 1 AND 12),
	stunden        NUMERIC(7,2) NOT NULL,
	PRIMARY KEY (mitarbeiter_id, jahr, monat)
);

CREATE TABLE IF NOT EXISTS schichtarten (
	code    TEXT PRIMARY KEY,
	name    TEXT NOT NULL DEFAULT '',
	stunden NUMERIC(5,2) NOT NULL,
	beginn  TIME NOT NULL
);

CREATE TABLE IF NOT EXISTS schichtplaene (
	id           UUID PRIMARY KEY,
	start_datum  DATE NOT NULL,
	end_datum    DATE NOT NULL,
	status       TEXT NOT NULL,
	objective    DOUBLE PRECISION NOT NULL DEFAULT 0,
	best_bound   DOUBLE PRECISION NOT NULL DEFAULT 0,
	warnings     TEXT[] NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS schichten (
	plan_id        UUID NOT NULL REFERENCES schichtplaene(id) ON DELETE CASCADE,
	mitarbeiter_id UUID NOT NULL REFERENCES mitarbeiter(id),
	kennung        TEXT NOT NULL,
	datum          DATE NOT NULL,
	code           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_schichten_kennung_datum ON schichten (kennung, datum);
`
