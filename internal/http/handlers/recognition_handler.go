package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/lostfound-backend/internal/http/handlers/common"
	"github.com/ignatzorin/lostfound-backend/internal/recognition"
)

// RecognitionHandler предоставляет HTTP слой для распознавания изображений.
type RecognitionHandler struct {
	recognizer recognition.Recognizer
}

// NewRecognitionHandler создаёт хэндлер.
func NewRecognitionHandler(recognizer recognition.Recognizer) *RecognitionHandler {
	return &RecognitionHandler{recognizer: recognizer}
}

// Recognize обрабатывает POST /api/image-recognition:
// принимает multipart-файл "image" и возвращает распознанные признаки.
func (h *RecognitionHandler) Recognize(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		common.RespondBadRequest(c, "файл image обязателен")
		return
	}

	if fh.Size > maxUploadBytes {
		common.RespondBadRequest(c, errTooLarge(fh.Filename).Error())
		return
	}

	f, err := fh.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(data) > maxUploadBytes {
		common.RespondBadRequest(c, errTooLarge(fh.Filename).Error())
		return
	}

	if !filetype.IsImage(data) {
		common.RespondBadRequest(c, errNotImage(fh.Filename).Error())
		return
	}

	kind, _ := filetype.Match(data)
	result, err := h.recognizer.Recognize(c.Request.Context(), data, kind.MIME.Value)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, result)
}
