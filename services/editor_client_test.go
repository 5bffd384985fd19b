package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/e-course-backend/models"
)

// fakeBackend serves the upload-url, object PUT and course update endpoints a
// draft save talks to.
type fakeBackend struct {
	mu          sync.Mutex
	objects     map[string][]byte
	failObjects map[string]bool
	saved       *savedCourse
}

type savedCourse struct {
	form     map[string]string
	sections []models.Section
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{objects: map[string][]byte{}, failObjects: map[string]bool{}}
}

func (b *fakeBackend) handler(t *testing.T, baseURL func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/get-video-upload-url"):
			courseID := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/courses/"), "/")[0]
			path := fmt.Sprintf("videos/%s/%s/%s", courseID, r.URL.Query().Get("sectionId"), r.URL.Query().Get("fileName"))
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{
				"uploadUrl": baseURL() + "/objects/" + path,
				"videoUrl":  "https://cdn.example.com/" + path,
			}})
		case strings.Contains(r.URL.Path, "/get-cover-photo-upload-url"):
			courseID := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/courses/"), "/")[0]
			path := fmt.Sprintf("covers/%s/%s", courseID, r.URL.Query().Get("fileName"))
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{
				"uploadUrl":     baseURL() + "/objects/" + path,
				"coverPhotoUrl": "https://cdn.example.com/" + path,
			}})
		case strings.HasPrefix(r.URL.Path, "/objects/") && r.Method == http.MethodPut:
			path := strings.TrimPrefix(r.URL.Path, "/objects/")
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.failObjects[path] {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			data, _ := io.ReadAll(r.Body)
			b.objects[path] = data
			w.WriteHeader(http.StatusOK)
		case strings.HasPrefix(r.URL.Path, "/api/courses/") && r.Method == http.MethodPut:
			require.NoError(t, r.ParseMultipartForm(32<<20))
			form := map[string]string{}
			for key, vs := range r.MultipartForm.Value {
				form[key] = vs[0]
			}
			var sections []models.Section
			require.NoError(t, json.Unmarshal([]byte(form["sections"]), &sections))
			b.mu.Lock()
			b.saved = &savedCourse{form: form, sections: sections}
			b.mu.Unlock()

			course := models.Course{Title: form["title"], Image: form["image"], Status: form["status"]}
			json.NewEncoder(w).Encode(map[string]any{"message": "course updated", "data": course})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func editorDraft(t *testing.T) *CourseDraft {
	t.Helper()
	course := &models.Course{
		Title:       "Go from Zero",
		Category:    "Development",
		SubCategory: "Web Development",
		Image:       models.PlaceholderImage,
		Status:      models.StatusDraft,
	}
	require.NoError(t, course.SetSections(nil))
	draft, err := NewCourseDraft(course)
	require.NoError(t, err)
	draft.CourseID = "course-1"
	draft.Sections = []DraftSection{
		{
			SectionID:    "s1",
			SectionTitle: "Intro",
			Chapters: []DraftChapter{
				{Chapter: models.Chapter{ChapterID: "c1", Title: "Welcome"}, LocalVideo: &LocalFile{Name: "welcome.mp4", ContentType: "video/mp4", Data: []byte("frames")}},
			},
		},
	}
	return draft
}

func TestSaveDraftEndToEnd(t *testing.T) {
	backend := newFakeBackend()
	var server *httptest.Server
	server = httptest.NewServer(backend.handler(t, func() string { return server.URL }))
	defer server.Close()

	client := &EditorClient{BaseURL: server.URL, Token: "token"}
	draft := editorDraft(t)
	draft.SetCoverPhoto(&LocalFile{Name: "cover.jpg", ContentType: "image/jpeg", Data: []byte("img")})

	result, err := client.SaveDraft(context.Background(), draft)
	require.NoError(t, err)
	assert.Empty(t, result.FailedChapters)

	// Video and cover bytes reached storage.
	assert.Equal(t, []byte("frames"), backend.objects["videos/course-1/s1/welcome.mp4"])
	assert.Equal(t, []byte("img"), backend.objects["covers/course-1/cover.jpg"])

	// The update carried the durable URLs, not the local files.
	require.NotNil(t, backend.saved)
	assert.Equal(t, "https://cdn.example.com/covers/course-1/cover.jpg", backend.saved.form["image"])
	require.Len(t, backend.saved.sections, 1)
	assert.Equal(t, "https://cdn.example.com/videos/course-1/s1/welcome.mp4", backend.saved.sections[0].Chapters[0].Video)

	assert.Nil(t, draft.PendingCover())
}

func TestSaveDraftVideoFailureDoesNotAbort(t *testing.T) {
	backend := newFakeBackend()
	backend.failObjects["videos/course-1/s1/welcome.mp4"] = true
	var server *httptest.Server
	server = httptest.NewServer(backend.handler(t, func() string { return server.URL }))
	defer server.Close()

	client := &EditorClient{BaseURL: server.URL}
	draft := editorDraft(t)
	draft.Sections[0].Chapters[0].Video = "https://cdn.example.com/old.mp4"

	result, err := client.SaveDraft(context.Background(), draft)
	require.NoError(t, err)

	require.Len(t, result.FailedChapters, 1)
	assert.Equal(t, "c1", result.FailedChapters[0].ChapterID)

	// The save still went through with the previous video URL.
	require.NotNil(t, backend.saved)
	assert.Equal(t, "https://cdn.example.com/old.mp4", backend.saved.sections[0].Chapters[0].Video)
}

func TestSaveDraftCoverFailureAborts(t *testing.T) {
	backend := newFakeBackend()
	backend.failObjects["covers/course-1/cover.jpg"] = true
	var server *httptest.Server
	server = httptest.NewServer(backend.handler(t, func() string { return server.URL }))
	defer server.Close()

	client := &EditorClient{BaseURL: server.URL}
	draft := editorDraft(t)
	draft.SetCoverPhoto(&LocalFile{Name: "cover.jpg", ContentType: "image/jpeg", Data: []byte("img")})

	_, err := client.SaveDraft(context.Background(), draft)
	require.Error(t, err)

	// No course update was submitted.
	assert.Nil(t, backend.saved)
}
