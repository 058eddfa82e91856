package musicgraph_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/soundprediction/musicgraph"
	"github.com/soundprediction/musicgraph/pkg/dataset"
	"github.com/soundprediction/musicgraph/pkg/driver"
	"github.com/soundprediction/musicgraph/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const songsCSV = `track_id,track_name,track_artist,track_popularity,track_album_id,track_album_name,track_album_release_date,playlist_genre,danceability,energy,duration_ms,playlist_name
t1,Song A,Artist X,80,al1,Album Y,2019-03-01,pop,0.7,0.6,200000,Mix
t2,Song B,Artist X,60,al1,Album Y,2019-03-01,pop,0.5,0.9,190000,Mix
t3,Song C,Artist Z,,al2,Album W,2001,rock,,,,Mix
t1,Song A duplicate,Artist Q,10,al9,Other,2000-01-01,rap,0.1,0.1,1,Mix
,Missing Id,Artist Z,1,al2,Album W,2001,rock,0.1,0.1,1,Mix
`

// MockGraphDriver records the order of calls on top of the in-memory store.
type MockGraphDriver struct {
	*driver.MemoryDriver

	mu    sync.Mutex
	calls []string
}

func newMockGraphDriver() *MockGraphDriver {
	return &MockGraphDriver{MemoryDriver: driver.NewMemoryDriver()}
}

func (m *MockGraphDriver) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 || m.calls[len(m.calls)-1] != call {
		m.calls = append(m.calls, call)
	}
}

func (m *MockGraphDriver) ApplySchemaStatement(ctx context.Context, stmt string) error {
	m.record("schema")
	return m.MemoryDriver.ApplySchemaStatement(ctx, stmt)
}

func (m *MockGraphDriver) DeleteAll(ctx context.Context) error {
	m.record("reset")
	return m.MemoryDriver.DeleteAll(ctx)
}

func (m *MockGraphDriver) UpsertArtist(ctx context.Context, a types.Artist) error {
	m.record("artists")
	return m.MemoryDriver.UpsertArtist(ctx, a)
}

func (m *MockGraphDriver) UpsertAlbum(ctx context.Context, a types.Album) error {
	m.record("albums")
	return m.MemoryDriver.UpsertAlbum(ctx, a)
}

func (m *MockGraphDriver) UpsertSong(ctx context.Context, s types.Song) error {
	m.record("songs")
	return m.MemoryDriver.UpsertSong(ctx, s)
}

func (m *MockGraphDriver) UpsertRelationship(ctx context.Context, r types.Relationship) error {
	m.record("relationships")
	return m.MemoryDriver.UpsertRelationship(ctx, r)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spotify_songs.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewClientRequiresDriver(t *testing.T) {
	_, err := musicgraph.NewClient(nil, nil, nil)
	assert.ErrorIs(t, err, musicgraph.ErrNoDriver)
}

func TestSetupRunsSchemaThenLoad(t *testing.T) {
	d := newMockGraphDriver()
	client, err := musicgraph.NewClient(d, nil, nil)
	require.NoError(t, err)

	result, err := client.Setup(context.Background(), writeCSV(t, songsCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"schema", "reset", "artists", "albums", "songs", "relationships"}, d.calls)
	assert.NotEmpty(t, result.RunID)
	require.NotNil(t, result.Schema)
	assert.True(t, result.Schema.OK())
	assert.Equal(t, 5, result.RawRows)
	assert.Equal(t, 3, result.Dataset.Songs)
	assert.Equal(t, 2, result.Dataset.Artists)
	assert.Equal(t, []string{"pop", "rock"}, result.Dataset.Genres)
	assert.Equal(t, 3, result.Load.Songs)
	assert.Equal(t, 9, result.Load.Relationships)

	song, ok := d.Song("t1")
	require.True(t, ok)
	assert.Equal(t, "Song A", song.Title)

	song, ok = d.Song("t3")
	require.True(t, ok)
	assert.Equal(t, types.DefaultDanceability, song.Danceability)
	assert.Equal(t, int64(types.DefaultDurationMs), song.Duration)

	album, ok := d.Album("al2")
	require.True(t, ok)
	assert.Equal(t, "2001-01-01", album.ReleaseDate)
}

func TestSetupTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	d := driver.NewMemoryDriver()
	client, err := musicgraph.NewClient(d, nil, nil)
	require.NoError(t, err)
	path := writeCSV(t, songsCSV)

	_, err = client.Setup(ctx, path)
	require.NoError(t, err)
	first, err := client.Stats(ctx)
	require.NoError(t, err)

	_, err = client.Setup(ctx, path)
	require.NoError(t, err)
	second, err := client.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.NodeCount, second.NodeCount)
	assert.Equal(t, first.EdgeCount, second.EdgeCount)
	assert.Equal(t, int64(2+2+3), second.NodeCount)
	assert.Len(t, d.Schema(), 9)
}

func TestSetupMissingFile(t *testing.T) {
	d := newMockGraphDriver()
	client, err := musicgraph.NewClient(d, nil, nil)
	require.NoError(t, err)

	_, err = client.Setup(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading dataset")
	assert.Equal(t, []string{"schema"}, d.calls)
}

func TestLoadFileMissingColumn(t *testing.T) {
	client, err := musicgraph.NewClient(driver.NewMemoryDriver(), nil, nil)
	require.NoError(t, err)

	_, err = client.LoadFile(context.Background(), writeCSV(t, "track_id,track_name\nt1,Song\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
}

func TestWithRunIDKeepsExisting(t *testing.T) {
	ctx := context.WithValue(context.Background(), types.ContextKeyRunID, "run-1")
	_, id := musicgraph.WithRunID(ctx)
	assert.Equal(t, "run-1", id)

	_, generated := musicgraph.WithRunID(context.Background())
	assert.Len(t, generated, 36)
}

func TestClientClose(t *testing.T) {
	d := driver.NewMemoryDriver()
	client, err := musicgraph.NewClient(d, nil, nil)
	require.NoError(t, err)
	require.NoError(t, client.Close())
	assert.Error(t, d.VerifyConnectivity(context.Background()))
}
