package conversation

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/Be3yH4uK315/it-recruiter-bot-service/core/logger"
	"github.com/Be3yH4uK315/it-recruiter-bot-service/internal/session"

	tele "gopkg.in/telebot.v4"
)

const maxResumeSize = 10 << 20

var resumeTypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// handleUploadSkipOnly accepts /skip in an upload state; any other
// text just repeats the prompt.
func (e *Engine) handleUploadSkipOnly(ctx context.Context, c tele.Context, sess *session.Session) error {
	if strings.TrimSpace(c.Text()) == "/skip" {
		return e.afterUpload(ctx, c, sess)
	}
	if sess.State == StateUploadAvatar {
		return c.Send(msgUploadAvatar)
	}
	return c.Send(msgUploadResume)
}

func (e *Engine) handleResumeUpload(ctx context.Context, c tele.Context, sess *session.Session) error {
	doc := c.Message().Document
	if doc == nil {
		return c.Send(msgUploadResume)
	}
	if !resumeTypes[doc.MIME] {
		return c.Send(msgResumeWrongType)
	}
	if doc.FileSize > maxResumeSize {
		return c.Send(msgResumeTooBig)
	}

	filename := doc.FileName
	if filename == "" {
		filename = "resume.pdf"
	}
	return e.storeUpload(ctx, c, sess, upload{
		purpose:     "resume",
		file:        doc.File,
		filename:    filename,
		contentType: doc.MIME,
		done:        msgResumeUpdated,
	})
}

func (e *Engine) handleAvatarUpload(ctx context.Context, c tele.Context, sess *session.Session) error {
	photo := c.Message().Photo
	if photo == nil {
		return c.Send(msgUploadAvatar)
	}
	return e.storeUpload(ctx, c, sess, upload{
		purpose:     "avatar",
		file:        photo.File,
		filename:    "avatar.jpg",
		contentType: "image/jpeg",
		done:        msgAvatarUpdated,
	})
}

type upload struct {
	purpose     string
	file        tele.File
	filename    string
	contentType string
	done        string
}

// storeUpload downloads the Telegram file, pushes it to the file
// service, swaps the profile reference, and only then removes the
// previous blob.
func (e *Engine) storeUpload(ctx context.Context, c tele.Context, sess *session.Session, up upload) error {
	userID := c.Sender().ID

	if err := c.Send(msgFileProcessing); err != nil {
		return err
	}

	rc, err := c.Bot().File(&up.file)
	if err != nil {
		logger.Error(ctx, "conv", "file.download",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("purpose", up.purpose),
			slog.String("err", err.Error()),
		)
		return c.Send(msgFileUploadError)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxResumeSize+1))
	if err != nil {
		return c.Send(msgFileUploadError)
	}
	if len(data) > maxResumeSize {
		return c.Send(msgResumeTooBig)
	}

	// Capture the current file reference before it gets replaced.
	var oldID string
	if p, perr := e.profile(ctx, sess, userID); perr == nil && p != nil {
		if up.purpose == "resume" {
			if p.HasResume() {
				oldID = p.Resumes[0].FileID
			}
		} else {
			oldID = avatarID(p)
		}
	}

	stored, err := e.files.Upload(ctx, up.filename, data, up.contentType, userID, up.purpose)
	if err != nil {
		logger.Error(ctx, "conv", "file.upload",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("purpose", up.purpose),
			slog.String("err", err.Error()),
		)
		return c.Send(msgFileUploadError)
	}

	replace := e.candidates.ReplaceResume
	if up.purpose == "avatar" {
		replace = e.candidates.ReplaceAvatar
	}
	if err := replace(ctx, userID, stored.ID); err != nil {
		logger.Error(ctx, "conv", "file.attach",
			slog.String("status", "error"),
			slog.Int64("user_id", userID),
			slog.String("purpose", up.purpose),
			slog.String("err", err.Error()),
		)
		return c.Send(msgFileUploadError)
	}

	if oldID != "" && oldID != stored.ID {
		if err := e.files.Delete(ctx, oldID, userID); err != nil {
			logger.Warn(ctx, "conv", "file.delete",
				slog.String("status", "error"),
				slog.Int64("user_id", userID),
				slog.String("file_id", oldID),
				slog.String("err", err.Error()),
			)
		}
	}

	sess.ProfileCache = nil
	logger.Info(ctx, "conv", "file.stored",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("purpose", up.purpose),
		slog.String("file_id", stored.ID),
	)
	if err := c.Send(up.done); err != nil {
		return err
	}
	return e.afterUpload(ctx, c, sess)
}
