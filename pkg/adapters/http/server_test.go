package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/aretw0/ordinal"
	"github.com/aretw0/ordinal/internal/testutils"
	"github.com/aretw0/ordinal/pkg/adapters/memory"
	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/aretw0/ordinal/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	h, err := NewHandler(context.Background(), ordinal.New(), opts...)
	require.NoError(t, err)
	return h
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestLoadSpec(t *testing.T) {
	doc, err := LoadSpec(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/rename/{kind}"))
}

func TestHealthAndInfo(t *testing.T) {
	h := newTestHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))
	require.Equal(t, http.StatusOK, w.Code)
	info := decodeBody[map[string]string](t, w)
	assert.Equal(t, "ordinal-http", info["app"])
	assert.NotEmpty(t, info["version"])
	assert.Equal(t, "0.1.0", info["api_version"])
}

func TestMatch(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/match", map[string]any{
		"expression": "img_%04d.png",
		"filenames":  []string{"img_0007.png", "img_7.png", "other.txt"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[struct {
		Results []matchResult `json:"results"`
	}](t, w)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, matchResult{Filename: "img_0007.png", Ordinal: 7, Matched: true}, resp.Results[0])
	assert.False(t, resp.Results[1].Matched)
	assert.False(t, resp.Results[2].Matched)
}

func TestMatch_Validation(t *testing.T) {
	h := newTestHandler(t)

	t.Run("missing filenames", func(t *testing.T) {
		w := post(t, h, "/match", map[string]any{"expression": "img_%d.png"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no placeholder", func(t *testing.T) {
		w := post(t, h, "/match", map[string]any{"expression": "img.png", "filenames": []string{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody[map[string]string](t, w)["error"], "img.png")
	})
}

func TestExpected(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/expected", map[string]any{"expression": "img_%04d.png", "filename": "img_0001.png", "offset": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "img_0003.png", decodeBody[map[string]string](t, w)["expected"])

	w = post(t, h, "/expected", map[string]any{"expression": "img_%04d.png", "filename": "img_0001.png"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "img_0002.png", decodeBody[map[string]string](t, w)["expected"])

	w = post(t, h, "/expected", map[string]any{"expression": "img_%04d.png", "filename": "photo.png"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = post(t, h, "/expected", map[string]any{"expression": "img_%02d.png", "filename": "img_99.png"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestFindGap_Filenames(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/gap", map[string]any{
		"expression": "a_%02d.jpg",
		"filenames":  []string{"a_01.jpg", "a_02.jpg", "a_04.jpg"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	gap := decodeBody[domain.Gap](t, w)
	assert.True(t, gap.Found)
	assert.Equal(t, domain.ReasonMismatch, gap.Reason)
	assert.Equal(t, "a_02.jpg", gap.Last)
	assert.Equal(t, "a_03.jpg", gap.Expected)
	assert.Equal(t, "a_04.jpg", gap.Actual)
}

func TestFindGap_FirstMatchAndFrom(t *testing.T) {
	h := newTestHandler(t)
	names := []string{"cover.png", "p1.png", "p2.png", "p5.png", "p6.png"}

	w := post(t, h, "/gap", map[string]any{"expression": "p%d.png", "filenames": names})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "p2.png", decodeBody[domain.Gap](t, w).Last)

	w = post(t, h, "/gap", map[string]any{"expression": "p%d.png", "filenames": names, "from": "p5.png"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	gap := decodeBody[domain.Gap](t, w)
	assert.False(t, gap.Found)
	assert.Equal(t, domain.ReasonEndOfList, gap.Reason)
	assert.Equal(t, "p6.png", gap.Last)

	w = post(t, h, "/gap", map[string]any{"expression": "p%d.png", "filenames": names, "from": "p9.png"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkRun_Dir(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, filepath.Join(root, "shots"), "s_1.png", "s_2.png", "s_3.png", "s_5.png")
	h := newTestHandler(t, WithRoot(root))

	w := post(t, h, "/run", map[string]any{"expression": "s_%d.png", "dir": "shots"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	run := decodeBody[domain.Run](t, w)
	assert.Equal(t, []string{"s_1.png", "s_2.png", "s_3.png"}, run.Names)
	assert.Equal(t, "s_4.png", run.Gap.Expected)
}

func TestWalk_Errors(t *testing.T) {
	root := t.TempDir()

	t.Run("no root", func(t *testing.T) {
		h := newTestHandler(t)
		w := post(t, h, "/gap", map[string]any{"expression": "s_%d.png", "dir": "shots"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("escaping dir", func(t *testing.T) {
		h := newTestHandler(t, WithRoot(root))
		w := post(t, h, "/gap", map[string]any{"expression": "s_%d.png", "dir": "../etc"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no expression", func(t *testing.T) {
		h := newTestHandler(t)
		w := post(t, h, "/gap", map[string]any{"filenames": []string{"s_1.png"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("nothing matches", func(t *testing.T) {
		h := newTestHandler(t)
		w := post(t, h, "/gap", map[string]any{"expression": "s_%d.png", "filenames": []string{"x.png"}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestSessions_RememberExpression(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFiles(t, filepath.Join(root, "shots"), "s_1.png", "s_2.png", "s_4.png")
	sessions := session.NewManager(memory.NewStore())
	h := newTestHandler(t, WithRoot(root), WithSessions(sessions))

	w := post(t, h, "/gap", map[string]any{"dir": "shots"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "nothing remembered yet")

	w = post(t, h, "/gap", map[string]any{"expression": "s_%d.png", "dir": "shots"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = post(t, h, "/gap", map[string]any{"dir": "shots"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "s_3.png", decodeBody[domain.Gap](t, w).Expected)

	expr, err := sessions.Resolve(context.Background(), session.Key(filepath.Join(root, "shots")), "")
	require.NoError(t, err)
	assert.Equal(t, "s_%d.png", expr)
}

func TestPlanRename(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/plan/offset", map[string]any{
		"expression": "f%03d.tif",
		"filenames":  []string{"f001.tif", "f002.tif"},
		"offset":     1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[renameResponse](t, w)
	assert.Equal(t, domain.RenameOffset, resp.Kind)
	assert.True(t, resp.DryRun)
	assert.Equal(t, []domain.Rename{
		{From: "f002.tif", To: "f003.tif"},
		{From: "f001.tif", To: "f002.tif"},
	}, resp.Renames)
}

func TestPlanRename_Errors(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/plan/shuffle", map[string]any{"expression": "f%d.tif", "filenames": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, h, "/plan/cross", map[string]any{"expression": "f%d.tif", "filenames": []string{"f1.tif"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, h, "/plan/offset", map[string]any{"expression": "f%d.tif", "filenames": []string{"f1.tif"}, "offset": -2})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = post(t, h, "/plan/offset", map[string]any{"expression": "f%d.tif", "filenames": []string{"x.tif"}, "offset": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestApplyRename_Dir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "shots")
	testutils.WriteFiles(t, dir, "shot_1.png", "shot_3.png", "shot_7.png", "notes.txt")
	h := newTestHandler(t, WithRoot(root), WithSessions(session.NewManager(memory.NewStore())))

	w := post(t, h, "/rename/seq", map[string]any{"expression": "shot_%d.png", "dir": "shots"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[renameResponse](t, w)
	assert.False(t, resp.DryRun)
	assert.Equal(t, 2, resp.Applied)

	for _, name := range []string{"shot_1.png", "shot_2.png", "shot_3.png", "notes.txt"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.NoFileExists(t, filepath.Join(dir, "shot_7.png"))
	assert.Equal(t, "shot_7.png", testutils.Origin(t, dir, "shot_3.png"))
}

func TestApplyRename_DryRun(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "shots")
	testutils.WriteFiles(t, dir, "a1.png", "a2.png")
	h := newTestHandler(t, WithRoot(root))

	w := post(t, h, "/rename/cross", map[string]any{
		"expression": "a%d.png",
		"to":         "b_%02d.png",
		"dir":        "shots",
		"dry_run":    true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[renameResponse](t, w)
	assert.True(t, resp.DryRun)
	assert.Equal(t, 2, resp.Applied)
	assert.FileExists(t, filepath.Join(dir, "a1.png"))
	assert.NoFileExists(t, filepath.Join(dir, "b_01.png"))
}

func TestApplyRename_Conflict(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "shots")
	testutils.WriteFiles(t, dir, "a1.png", "b1.png")
	h := newTestHandler(t, WithRoot(root))

	w := post(t, h, "/rename/cross", map[string]any{"expression": "a%d.png", "to": "b%d.png", "dir": "shots"})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"applied":0`)
	assert.FileExists(t, filepath.Join(dir, "a1.png"))
}

func TestApplyRename_FilenamesAreSimulated(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/rename/sequential", map[string]any{
		"expression": "p%d.png",
		"filenames":  []string{"x.png", "y.png"},
		"start":      10,
		"step":       5,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeBody[renameResponse](t, w)
	assert.True(t, resp.DryRun)
	assert.Equal(t, 2, resp.Applied)
	assert.Equal(t, []domain.Rename{
		{From: "x.png", To: "p10.png"},
		{From: "y.png", To: "p15.png"},
	}, resp.Renames)
}

func TestSimulation(t *testing.T) {
	var target renameTarget = simulation{list: memory.NewList("a1.png", "a2.png")}
	ctx := context.Background()

	assert.True(t, target.DryRun())
	require.NoError(t, target.Rename(ctx, "a2.png", "b2.png"))
	assert.ErrorIs(t, target.Rename(ctx, "a1.png", "b2.png"), domain.ErrExists)

	names, err := target.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a1.png", "b2.png"}, names)
}

func TestMetricsMount(t *testing.T) {
	h := newTestHandler(t, WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ordinal_steps_total 0\n"))
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ordinal_steps_total")
}
