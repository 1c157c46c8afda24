// Package migration holds the SQLite schema.
package migration

// Create builds the schema from scratch. Listen.date holds the source's
// epoch-seconds string when one was provided; Listen.date_raw holds the
// source's textual date verbatim. Both travel to the analysis side untouched
// so that date resolution happens in exactly one place.
const Create = `
CREATE TABLE IF NOT EXISTS User (
  name TEXT PRIMARY KEY,
  session_key TEXT DEFAULT '',
  last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS Artist (
  name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS Album (
  artist TEXT,
  name TEXT,
  FOREIGN KEY (artist) REFERENCES Artist(name),
  PRIMARY KEY (artist, name)
);

CREATE TABLE IF NOT EXISTS Track (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  artist TEXT,
  album TEXT,
  name TEXT,
  FOREIGN KEY (artist) REFERENCES Artist(name),
  FOREIGN KEY (artist, album) REFERENCES Album(artist, name)
);

CREATE TABLE IF NOT EXISTS Listen (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user TEXT,
  track INTEGER,
  date TEXT,
  date_raw TEXT DEFAULT '',
  FOREIGN KEY (user) REFERENCES User(name),
  FOREIGN KEY (track) REFERENCES Track(id)
);

CREATE INDEX IF NOT EXISTS idx_listen_user ON Listen(user);
CREATE INDEX IF NOT EXISTS idx_track_artist ON Track(artist);
`
