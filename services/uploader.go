package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// UploadTarget is one signed upload destination plus the durable URL the
// object will be served from after the PUT succeeds.
type UploadTarget struct {
	UploadURL string
	FileURL   string
}

// UploadGateway signs upload destinations and transfers file bytes to them.
type UploadGateway interface {
	VideoUploadTarget(ctx context.Context, courseID, sectionID, fileName string) (UploadTarget, error)
	CoverUploadTarget(ctx context.Context, courseID, fileName string) (UploadTarget, error)
	Transfer(ctx context.Context, uploadURL string, file *LocalFile) error
}

// ChapterUploadError records one failed chapter video upload, addressed both
// positionally and by the stable IDs so callers can point at the chapter.
type ChapterUploadError struct {
	SectionIndex int
	ChapterIndex int
	SectionID    string
	ChapterID    string
	Err          error
}

func (e ChapterUploadError) Error() string {
	return fmt.Sprintf("upload video for section %d chapter %d: %v", e.SectionIndex, e.ChapterIndex, e.Err)
}

func (e ChapterUploadError) Unwrap() error { return e.Err }

// Uploader runs the media uploads a draft save needs. Chapter video failures
// are isolated per chapter; a cover failure aborts the save.
type Uploader struct {
	Gateway  UploadGateway
	Parallel int
}

type chapterUpload struct {
	sectionIndex int
	chapterIndex int
	sectionID    string
	chapterID    string
	file         *LocalFile
}

// UploadAllVideos uploads every pending chapter video in the draft,
// bounded-parallel, and returns when every attempt has finished. Chapters
// whose upload succeeded get their Video URL set and the local file cleared;
// failed chapters are left untouched and reported in the returned slice,
// ordered by position. The returned slice is empty when everything succeeded.
func (u *Uploader) UploadAllVideos(ctx context.Context, draft *CourseDraft) []ChapterUploadError {
	var uploads []chapterUpload
	for si := range draft.Sections {
		for ci := range draft.Sections[si].Chapters {
			chapter := &draft.Sections[si].Chapters[ci]
			if chapter.LocalVideo == nil || !chapter.LocalVideo.IsVideo() {
				continue
			}
			uploads = append(uploads, chapterUpload{
				sectionIndex: si,
				chapterIndex: ci,
				sectionID:    draft.Sections[si].SectionID,
				chapterID:    chapter.ChapterID,
				file:         chapter.LocalVideo,
			})
		}
	}
	if len(uploads) == 0 {
		return nil
	}

	parallel := u.Parallel
	if parallel <= 0 {
		parallel = 4
	}

	var (
		mu       sync.Mutex
		failures []ChapterUploadError
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, up := range uploads {
		up := up
		g.Go(func() error {
			err := u.uploadChapterVideo(ctx, draft, up)
			if err != nil {
				mu.Lock()
				failures = append(failures, ChapterUploadError{
					SectionIndex: up.sectionIndex,
					ChapterIndex: up.chapterIndex,
					SectionID:    up.sectionID,
					ChapterID:    up.chapterID,
					Err:          err,
				})
				mu.Unlock()
			}
			// Never propagate: one chapter failing must not cancel the rest.
			return nil
		})
	}
	g.Wait()

	sort.Slice(failures, func(i, j int) bool {
		if failures[i].SectionIndex != failures[j].SectionIndex {
			return failures[i].SectionIndex < failures[j].SectionIndex
		}
		return failures[i].ChapterIndex < failures[j].ChapterIndex
	})
	return failures
}

func (u *Uploader) uploadChapterVideo(ctx context.Context, draft *CourseDraft, up chapterUpload) error {
	target, err := u.Gateway.VideoUploadTarget(ctx, draft.CourseID, up.sectionID, up.file.Name)
	if err != nil {
		return err
	}
	if err := u.Gateway.Transfer(ctx, target.UploadURL, up.file); err != nil {
		return err
	}
	// Each goroutine writes only its own chapter slot.
	chapter := &draft.Sections[up.sectionIndex].Chapters[up.chapterIndex]
	chapter.Video = target.FileURL
	chapter.LocalVideo = nil
	return nil
}

// UploadCoverPhoto uploads the pending cover, sets the draft image to the
// durable URL and releases the preview. Unlike video uploads this is
// fail-fast: any error is returned and the draft image is left untouched.
func (u *Uploader) UploadCoverPhoto(ctx context.Context, draft *CourseDraft) error {
	cover := draft.PendingCover()
	if cover == nil {
		return nil
	}
	target, err := u.Gateway.CoverUploadTarget(ctx, draft.CourseID, cover.Name)
	if err != nil {
		return err
	}
	if err := u.Gateway.Transfer(ctx, target.UploadURL, cover); err != nil {
		return err
	}
	draft.Image = target.FileURL
	draft.ClearCoverPhoto()
	return nil
}
