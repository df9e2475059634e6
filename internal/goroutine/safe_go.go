package goroutine

import (
	"runtime/debug"

	"github.com/ignatzorin/lostfound-backend/internal/logger"
)

// SafeGo запускает горутину с перехватом panic.
// Используется для фоновых задач, падение которых не должно ронять процесс:
// приветственные уведомления, push по websocket, закрытие медленных клиентов.
func SafeGo(fn func()) {
	go func() {
		defer recoverPanic("goroutine")
		fn()
	}()
}

func recoverPanic(where string) {
	if r := recover(); r != nil {
		logger.Log.Errorf("panic in %s: %v\n%s", where, r, debug.Stack())
	}
}
