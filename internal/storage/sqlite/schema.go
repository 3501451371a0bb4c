// ABOUTME: SQLite database schema for plant texts storage
// ABOUTME: Users, plants, append-only conversation turns and care tasks
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Account holders
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    phone TEXT,
    created_at TEXT NOT NULL
);

-- Plants, each with one personality
CREATE TABLE IF NOT EXISTS plants (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    species TEXT,
    personality_type TEXT NOT NULL,
    created_at TEXT NOT NULL
);

-- Conversation turns; seq is arrival order
CREATE TABLE IF NOT EXISTS conversation_turns (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    plant_id TEXT NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL,
    speaker TEXT NOT NULL CHECK (speaker IN ('user', 'plant')),
    text TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TRIGGER IF NOT EXISTS conversation_turns_append_only
BEFORE UPDATE ON conversation_turns
BEGIN
    SELECT RAISE(ABORT, 'conversation turns are append-only');
END;

-- Care tasks; completed_at is set once
CREATE TABLE IF NOT EXISTS care_tasks (
    id TEXT PRIMARY KEY,
    plant_id TEXT NOT NULL REFERENCES plants(id) ON DELETE CASCADE,
    task_type TEXT NOT NULL CHECK (task_type IN ('watering', 'fertilizing', 'misting', 'pruning', 'repotting')),
    due_at TEXT NOT NULL,
    completed_at TEXT
);

CREATE TRIGGER IF NOT EXISTS care_tasks_complete_once
BEFORE UPDATE ON care_tasks
WHEN OLD.completed_at IS NOT NULL
BEGIN
    SELECT RAISE(ABORT, 'care task already completed');
END;

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_plants_user ON plants(user_id);
CREATE INDEX IF NOT EXISTS idx_turns_plant_seq ON conversation_turns(plant_id, seq);
CREATE INDEX IF NOT EXISTS idx_care_plant ON care_tasks(plant_id);
CREATE INDEX IF NOT EXISTS idx_care_open_due ON care_tasks(due_at) WHERE completed_at IS NULL;
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
