// Package store persists the mood state as one JSON document in a diskv
// directory and reports changes made to it by any process.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/mood/pkg/mood"
	"tableflip.dev/mood/pkg/timeutil"
)

const (
	// StateKey holds the canonical state document.
	StateKey = "mood-state"

	// Legacy keys written by older surfaces. They are only ever read.
	LegacyMoodKey     = "today-mood"
	LegacyScoreKey    = "mood-score"
	LegacyDateKey     = "mood-date"
	LegacyCheckinsKey = "mood-checkins"

	CurrentSchema = "v1"

	tempDir = ".tmp"
)

var (
	// ErrNoState is returned by Load when nothing has been persisted yet.
	ErrNoState = errors.New("store: no persisted state")
	// ErrCorrupt is returned by Load when the persisted document cannot be
	// parsed.
	ErrCorrupt = errors.New("store: corrupt persisted state")
)

// State is the persisted document.
type State struct {
	Schema         string          `json:"schema"`
	Current        *mood.DayRecord `json:"current"`
	History        mood.History    `json:"history"`
	Writer         string          `json:"writer,omitempty"`
	Updated        time.Time       `json:"updated"`
	LegacyMigrated bool            `json:"legacyMigrated,omitempty"`
}

// Legacy is what the older per-screen keys hold.
type Legacy struct {
	Label    string
	RawScore string
	Date     timeutil.Date
	Checkins int
	Found    bool
}

// Persistence defines the persistence contract for the mood state.
type Persistence interface {
	Load(ctx context.Context) (State, error)
	Save(s State) error
	Legacy(ctx context.Context) (Legacy, error)
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	// No read cache: other processes write the same keys and a cached value
	// would hide their changes.
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		TempDir:      filepath.Join(basePath, tempDir),
		Transform:    flatTransform,
		CacheSizeMax: 0,
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func flatTransform(string) []string {
	return []string{}
}

func (p *persistence) Load(ctx context.Context) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}
	if !p.d.Has(StateKey) {
		return State{}, ErrNoState
	}
	val, err := p.d.Read(StateKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, ErrNoState
		}
		return State{}, fmt.Errorf("store: read %s: %w", StateKey, err)
	}
	return decodeState(val)
}

func decodeState(val []byte) (State, error) {
	s := State{}
	if err := json.Unmarshal(val, &s); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if s.Schema == "" {
		s.Schema = CurrentSchema
	}
	if s.Schema != CurrentSchema {
		return State{}, fmt.Errorf("%w: unknown schema %q", ErrCorrupt, s.Schema)
	}
	s.History = s.History.Normalize()
	return s, nil
}

func (p *persistence) Save(s State) error {
	if s.Schema == "" {
		s.Schema = CurrentSchema
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := p.d.WriteStream(StateKey, bytes.NewReader(data), true); err != nil {
		return fmt.Errorf("store: write %s: %w", StateKey, err)
	}
	return nil
}

func (p *persistence) Legacy(ctx context.Context) (Legacy, error) {
	if err := ctx.Err(); err != nil {
		return Legacy{}, err
	}
	l := Legacy{}
	if v, ok := p.readString(LegacyMoodKey); ok {
		l.Label = v
		l.Found = v != ""
	}
	if v, ok := p.readString(LegacyScoreKey); ok {
		l.RawScore = v
	}
	if v, ok := p.readString(LegacyDateKey); ok {
		if d, err := timeutil.ParseDate(v); err == nil {
			l.Date = d
		}
	}
	if v, ok := p.readString(LegacyCheckinsKey); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			l.Checkins = n
		}
	}
	return l, nil
}

// readString reads a legacy key. Older surfaces stored either a bare value or
// a JSON string, so both are accepted.
func (p *persistence) readString(key string) (string, bool) {
	if !p.d.Has(key) {
		return "", false
	}
	val, err := p.d.Read(key)
	if err != nil {
		return "", false
	}
	raw := strings.TrimSpace(string(val))
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return strings.TrimSpace(s), true
	}
	return raw, true
}
