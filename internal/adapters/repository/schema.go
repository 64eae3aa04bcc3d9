package repository

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS events (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    phase              TEXT NOT NULL DEFAULT 'registration',
    sidequest_cooldown INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS event_participants (
    event_id TEXT NOT NULL REFERENCES events(id),
    user_id  TEXT NOT NULL,
    role     TEXT NOT NULL,
    PRIMARY KEY (event_id, user_id)
);

CREATE TABLE IF NOT EXISTS teams (
    id          TEXT PRIMARY KEY,
    event_id    TEXT NOT NULL REFERENCES events(id),
    name        TEXT NOT NULL,
    extra_score REAL
);

CREATE TABLE IF NOT EXISTS team_members (
    team_id TEXT NOT NULL REFERENCES teams(id),
    user_id TEXT NOT NULL,
    role    TEXT NOT NULL DEFAULT 'member',
    PRIMARY KEY (team_id, user_id)
);

CREATE TABLE IF NOT EXISTS sidequests (
    id                      TEXT PRIMARY KEY,
    event_id                TEXT NOT NULL REFERENCES events(id),
    name                    TEXT NOT NULL,
    is_higher_result_better BOOLEAN NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS attempts (
    id           TEXT PRIMARY KEY,
    sidequest_id TEXT NOT NULL REFERENCES sidequests(id),
    user_id      TEXT NOT NULL,
    result       REAL NOT NULL,
    attempted_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_attempts_sidequest ON attempts(sidequest_id);
CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_id, attempted_at);

CREATE TABLE IF NOT EXISTS expert_ratings (
    team_id  TEXT NOT NULL REFERENCES teams(id),
    rater_id TEXT NOT NULL,
    category TEXT NOT NULL,
    rating   REAL NOT NULL,
    PRIMARY KEY (team_id, rater_id, category)
);

CREATE TABLE IF NOT EXISTS technical_questions (
    id         TEXT PRIMARY KEY,
    event_id   TEXT NOT NULL REFERENCES events(id),
    question   TEXT NOT NULL,
    min_points REAL NOT NULL DEFAULT 0,
    max_points REAL NOT NULL,
    is_binary  BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS technical_results (
    team_id     TEXT NOT NULL REFERENCES teams(id),
    question_id TEXT NOT NULL REFERENCES technical_questions(id),
    points      REAL,
    PRIMARY KEY (team_id, question_id)
);

CREATE TABLE IF NOT EXISTS votes (
    event_id TEXT NOT NULL REFERENCES events(id),
    voter_id TEXT NOT NULL,
    team_id  TEXT NOT NULL REFERENCES teams(id),
    rank     INTEGER NOT NULL,
    PRIMARY KEY (event_id, voter_id, rank)
);

CREATE TABLE IF NOT EXISTS score_snapshots (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    team_id  TEXT NOT NULL REFERENCES teams(id),
    score    REAL NOT NULL,
    valid_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_team ON score_snapshots(team_id, valid_at);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS events (
    id                 UUID PRIMARY KEY,
    name               TEXT NOT NULL,
    phase              TEXT NOT NULL DEFAULT 'registration',
    sidequest_cooldown INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS event_participants (
    event_id UUID NOT NULL REFERENCES events(id),
    user_id  UUID NOT NULL,
    role     TEXT NOT NULL,
    PRIMARY KEY (event_id, user_id)
);

CREATE TABLE IF NOT EXISTS teams (
    id          UUID PRIMARY KEY,
    event_id    UUID NOT NULL REFERENCES events(id),
    name        TEXT NOT NULL,
    extra_score DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS team_members (
    team_id UUID NOT NULL REFERENCES teams(id),
    user_id UUID NOT NULL,
    role    TEXT NOT NULL DEFAULT 'member',
    PRIMARY KEY (team_id, user_id)
);

CREATE TABLE IF NOT EXISTS sidequests (
    id                      UUID PRIMARY KEY,
    event_id                UUID NOT NULL REFERENCES events(id),
    name                    TEXT NOT NULL,
    is_higher_result_better BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS attempts (
    id           UUID PRIMARY KEY,
    sidequest_id UUID NOT NULL REFERENCES sidequests(id),
    user_id      UUID NOT NULL,
    result       DOUBLE PRECISION NOT NULL,
    attempted_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_attempts_sidequest ON attempts(sidequest_id);
CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_id, attempted_at);

CREATE TABLE IF NOT EXISTS expert_ratings (
    team_id  UUID NOT NULL REFERENCES teams(id),
    rater_id UUID NOT NULL,
    category TEXT NOT NULL,
    rating   DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (team_id, rater_id, category)
);

CREATE TABLE IF NOT EXISTS technical_questions (
    id         UUID PRIMARY KEY,
    event_id   UUID NOT NULL REFERENCES events(id),
    question   TEXT NOT NULL,
    min_points DOUBLE PRECISION NOT NULL DEFAULT 0,
    max_points DOUBLE PRECISION NOT NULL,
    is_binary  BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS technical_results (
    team_id     UUID NOT NULL REFERENCES teams(id),
    question_id UUID NOT NULL REFERENCES technical_questions(id),
    points      DOUBLE PRECISION,
    PRIMARY KEY (team_id, question_id)
);

CREATE TABLE IF NOT EXISTS votes (
    event_id UUID NOT NULL REFERENCES events(id),
    voter_id UUID NOT NULL,
    team_id  UUID NOT NULL REFERENCES teams(id),
    rank     INTEGER NOT NULL CHECK (rank BETWEEN 1 AND 3),
    PRIMARY KEY (event_id, voter_id, rank)
);

CREATE TABLE IF NOT EXISTS score_snapshots (
    id       BIGSERIAL PRIMARY KEY,
    team_id  UUID NOT NULL REFERENCES teams(id),
    score    DOUBLE PRECISION NOT NULL,
    valid_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_team ON score_snapshots(team_id, valid_at);
`
