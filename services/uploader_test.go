package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/e-course-backend/models"
)

// fakeGateway signs deterministic targets and fails the transfers whose file
// name is listed in failTransfers.
type fakeGateway struct {
	mu            sync.Mutex
	failTransfers map[string]bool
	failSign      map[string]bool
	transferred   []string
	coverDeletes  int
}

func (g *fakeGateway) VideoUploadTarget(ctx context.Context, courseID, sectionID, fileName string) (UploadTarget, error) {
	if g.failSign[fileName] {
		return UploadTarget{}, errors.New("sign refused")
	}
	path := fmt.Sprintf("videos/%s/%s/%s", courseID, sectionID, fileName)
	return UploadTarget{
		UploadURL: "https://storage.example.com/upload/" + path,
		FileURL:   "https://storage.example.com/" + path,
	}, nil
}

func (g *fakeGateway) CoverUploadTarget(ctx context.Context, courseID, fileName string) (UploadTarget, error) {
	if g.failSign[fileName] {
		return UploadTarget{}, errors.New("sign refused")
	}
	g.mu.Lock()
	g.coverDeletes++
	g.mu.Unlock()
	path := fmt.Sprintf("covers/%s/%s", courseID, fileName)
	return UploadTarget{
		UploadURL: "https://storage.example.com/upload/" + path,
		FileURL:   "https://storage.example.com/" + path,
	}, nil
}

func (g *fakeGateway) Transfer(ctx context.Context, uploadURL string, file *LocalFile) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failTransfers[file.Name] {
		return errors.New("transfer failed")
	}
	g.transferred = append(g.transferred, file.Name)
	return nil
}

func videoDraft(t *testing.T) *CourseDraft {
	t.Helper()
	course := &models.Course{Status: models.StatusDraft, Image: models.PlaceholderImage}
	require.NoError(t, course.SetSections(nil))
	draft, err := NewCourseDraft(course)
	require.NoError(t, err)

	draft.Sections = []DraftSection{
		{
			SectionID: "s1",
			Chapters: []DraftChapter{
				{Chapter: models.Chapter{ChapterID: "c1", Title: "One"}, LocalVideo: &LocalFile{Name: "one.mp4", ContentType: "video/mp4"}},
				{Chapter: models.Chapter{ChapterID: "c2", Title: "Two", Video: "https://old/two.mp4"}, LocalVideo: &LocalFile{Name: "two.mp4", ContentType: "video/mp4"}},
			},
		},
		{
			SectionID: "s2",
			Chapters: []DraftChapter{
				{Chapter: models.Chapter{ChapterID: "c3", Title: "Three"}, LocalVideo: &LocalFile{Name: "three.mp4", ContentType: "video/mp4"}},
			},
		},
	}
	return draft
}

func TestUploadAllVideosSuccess(t *testing.T) {
	gw := &fakeGateway{}
	up := &Uploader{Gateway: gw, Parallel: 2}
	draft := videoDraft(t)

	failures := up.UploadAllVideos(context.Background(), draft)
	assert.Empty(t, failures)

	for si, section := range draft.Sections {
		for ci, chapter := range section.Chapters {
			assert.Nil(t, chapter.LocalVideo, "section %d chapter %d", si, ci)
			assert.Contains(t, chapter.Video, "https://storage.example.com/videos/")
		}
	}
	assert.Len(t, gw.transferred, 3)
}

func TestUploadAllVideosIsolatesFailures(t *testing.T) {
	gw := &fakeGateway{failTransfers: map[string]bool{"two.mp4": true}}
	up := &Uploader{Gateway: gw, Parallel: 2}
	draft := videoDraft(t)

	failures := up.UploadAllVideos(context.Background(), draft)

	require.Len(t, failures, 1)
	assert.Equal(t, 0, failures[0].SectionIndex)
	assert.Equal(t, 1, failures[0].ChapterIndex)
	assert.Equal(t, "s1", failures[0].SectionID)
	assert.Equal(t, "c2", failures[0].ChapterID)

	// Failed chapter keeps its previous URL and its pending file.
	failed := draft.Sections[0].Chapters[1]
	assert.Equal(t, "https://old/two.mp4", failed.Video)
	assert.NotNil(t, failed.LocalVideo)

	// The others still landed.
	assert.Contains(t, draft.Sections[0].Chapters[0].Video, "one.mp4")
	assert.Contains(t, draft.Sections[1].Chapters[0].Video, "three.mp4")
}

func TestUploadAllVideosReportsFailuresInOrder(t *testing.T) {
	gw := &fakeGateway{failTransfers: map[string]bool{"one.mp4": true, "two.mp4": true, "three.mp4": true}}
	up := &Uploader{Gateway: gw, Parallel: 3}
	draft := videoDraft(t)

	failures := up.UploadAllVideos(context.Background(), draft)

	require.Len(t, failures, 3)
	assert.Equal(t, []string{"c1", "c2", "c3"}, []string{failures[0].ChapterID, failures[1].ChapterID, failures[2].ChapterID})
}

func TestUploadAllVideosSignFailureIsIsolatedToo(t *testing.T) {
	gw := &fakeGateway{failSign: map[string]bool{"three.mp4": true}}
	up := &Uploader{Gateway: gw}
	draft := videoDraft(t)

	failures := up.UploadAllVideos(context.Background(), draft)

	require.Len(t, failures, 1)
	assert.Equal(t, "c3", failures[0].ChapterID)
	assert.Contains(t, draft.Sections[0].Chapters[0].Video, "one.mp4")
}

func TestUploadAllVideosSkipsNonVideoFiles(t *testing.T) {
	gw := &fakeGateway{}
	up := &Uploader{Gateway: gw}
	draft := videoDraft(t)
	draft.Sections[0].Chapters[0].LocalVideo = &LocalFile{Name: "notes.pdf", ContentType: "application/pdf"}

	failures := up.UploadAllVideos(context.Background(), draft)

	assert.Empty(t, failures)
	assert.NotContains(t, gw.transferred, "notes.pdf")
	assert.Len(t, gw.transferred, 2)
}

func TestUploadAllVideosNothingPending(t *testing.T) {
	gw := &fakeGateway{}
	up := &Uploader{Gateway: gw}
	draft := videoDraft(t)
	for si := range draft.Sections {
		for ci := range draft.Sections[si].Chapters {
			draft.Sections[si].Chapters[ci].LocalVideo = nil
		}
	}

	assert.Empty(t, up.UploadAllVideos(context.Background(), draft))
	assert.Empty(t, gw.transferred)
}

func TestUploadCoverPhoto(t *testing.T) {
	gw := &fakeGateway{}
	up := &Uploader{Gateway: gw}
	draft := videoDraft(t)
	draft.CourseID = "course-1"
	preview := draft.SetCoverPhoto(&LocalFile{Name: "cover.jpg", ContentType: "image/jpeg", Data: []byte("img")})

	require.NoError(t, up.UploadCoverPhoto(context.Background(), draft))

	assert.Equal(t, "https://storage.example.com/covers/course-1/cover.jpg", draft.Image)
	assert.Nil(t, draft.PendingCover())
	assert.True(t, preview.Released())
}

func TestUploadCoverPhotoFailFast(t *testing.T) {
	gw := &fakeGateway{failTransfers: map[string]bool{"cover.jpg": true}}
	up := &Uploader{Gateway: gw}
	draft := videoDraft(t)
	draft.SetCoverPhoto(&LocalFile{Name: "cover.jpg", ContentType: "image/jpeg", Data: []byte("img")})

	err := up.UploadCoverPhoto(context.Background(), draft)

	require.Error(t, err)
	assert.Equal(t, models.PlaceholderImage, draft.Image)
	assert.NotNil(t, draft.PendingCover())
}

func TestUploadCoverPhotoNoPendingIsNoop(t *testing.T) {
	gw := &fakeGateway{}
	up := &Uploader{Gateway: gw}
	draft := videoDraft(t)

	require.NoError(t, up.UploadCoverPhoto(context.Background(), draft))
	assert.Equal(t, 0, gw.coverDeletes)
}
