package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/trackpull-go/internal/domain"
	"github.com/yourusername/trackpull-go/internal/infrastructure"
	"go.uber.org/zap"
)

func newOrchestrator(t *testing.T, baseURL string, timeout time.Duration) *Orchestrator {
	t.Helper()
	log := zap.NewNop()
	client := infrastructure.NewClient(baseURL, log)
	saver := infrastructure.NewFileSaver(t.TempDir(), log)
	cfg := &domain.APIConfig{BaseURL: baseURL, Timeout: timeout}
	return NewOrchestrator(client, saver, nil, nil, cfg, log)
}

func audioForm(url string) domain.FormState {
	return domain.FormState{
		SourceURL: url,
		Provider:  domain.ProviderAudio,
		Format:    domain.FormatMP3,
	}
}

func TestSubmit_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="song.mp3"`)
		w.Header().Set("Content-Length", "5")
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	o := newOrchestrator(t, server.URL, 10*time.Second)

	var reported []int
	transfer, err := o.Submit(context.Background(), audioForm("https://music.example.com/track/1"), func(p int) {
		reported = append(reported, p)
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PhaseSucceeded, transfer.Phase)
	assert.Equal(t, "song.mp3", transfer.ResultFilename)
	assert.Equal(t, 100, transfer.ProgressPercent)
	assert.Equal(t, "Saved: song.mp3", o.Status())

	require.NotEmpty(t, reported)
	assert.Equal(t, 100, reported[len(reported)-1])
	for i := 1; i < len(reported); i++ {
		assert.GreaterOrEqual(t, reported[i], reported[i-1])
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(transfer.SavedPath), "song.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "audio", string(data))
}

func TestSubmit_ValidationFailsBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	o := newOrchestrator(t, server.URL, 10*time.Second)

	form := audioForm("https://music.example.com/track/1")
	form.TrimStart = "15"
	form.TrimEnd = "30"

	transfer, err := o.Submit(context.Background(), form, nil)

	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, domain.PhaseFailed, transfer.Phase)
	assert.Equal(t, int32(0), hits.Load(), "validation failures must not reach the network")
}

func TestSubmit_RejectedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"track is region locked"}`))
	}))
	defer server.Close()

	o := newOrchestrator(t, server.URL, 10*time.Second)

	transfer, err := o.Submit(context.Background(), audioForm("https://music.example.com/track/1"), nil)

	require.Error(t, err)
	assert.Equal(t, domain.KindRejected, domain.KindOf(err))
	assert.Equal(t, "track is region locked", transfer.ErrorMessage)
	assert.Equal(t, "track is region locked", o.Status())
}

func TestSubmit_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	o := newOrchestrator(t, server.URL, 30*time.Millisecond)

	transfer, err := o.Submit(context.Background(), audioForm("https://music.example.com/track/1"), nil)

	require.Error(t, err)
	assert.Equal(t, domain.KindTimeout, domain.KindOf(err))
	assert.Contains(t, transfer.ErrorMessage, "timed out")
}

func TestSubmit_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	o := newOrchestrator(t, server.URL, 10*time.Second)

	var wg sync.WaitGroup
	wg.Add(1)
	firstStarted := make(chan struct{})
	go func() {
		defer wg.Done()
		close(firstStarted)
		o.Submit(context.Background(), audioForm("https://music.example.com/track/1"), nil)
	}()

	<-firstStarted
	// Give the first submission time to take the in-flight slot.
	time.Sleep(50 * time.Millisecond)

	transfer, err := o.Submit(context.Background(), audioForm("https://music.example.com/track/2"), nil)
	assert.ErrorIs(t, err, ErrTransferInFlight)
	assert.Nil(t, transfer)

	close(release)
	wg.Wait()

	// Once the first transfer finishes the slot opens up again.
	_, err = o.Submit(context.Background(), audioForm("https://music.example.com/track/3"), nil)
	require.NoError(t, err)
}

func TestSubmit_RecordsHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	repo, err := infrastructure.NewSQLiteTransferRepository(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer repo.Close()

	log := zap.NewNop()
	client := infrastructure.NewClient(server.URL, log)
	saver := infrastructure.NewFileSaver(t.TempDir(), log)
	cfg := &domain.APIConfig{BaseURL: server.URL, Timeout: 10 * time.Second}
	o := NewOrchestrator(client, saver, repo, nil, cfg, log)

	transfer, err := o.Submit(context.Background(), audioForm("https://music.example.com/track/1"), nil)
	require.NoError(t, err)

	stored, err := repo.FindByID(transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseSucceeded, stored.Phase)
	assert.Equal(t, transfer.ResultFilename, stored.ResultFilename)
}

func TestSubmit_RutubeUsesVideoDefaults(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte("video"))
	}))
	defer server.Close()

	o := newOrchestrator(t, server.URL, 10*time.Second)

	form := domain.FormState{
		SourceURL: "https://rutube.ru/video/abc/",
		Provider:  domain.ProviderRutube,
	}
	transfer, err := o.Submit(context.Background(), form, nil)

	require.NoError(t, err)
	assert.Equal(t, "/download_rutube/", path)
	assert.Equal(t, "video.mp4", transfer.ResultFilename)
	assert.True(t, strings.HasSuffix(transfer.SavedPath, "video.mp4"))
}
