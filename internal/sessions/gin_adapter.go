package sessions

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// committingWriter saves the session and sets its cookie the first time the
// handler starts a response, while headers can still change.
type committingWriter struct {
	gin.ResponseWriter
	commit func()
}

func (w *committingWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *committingWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *committingWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *committingWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}

// LoadAndSave returns a Gin middleware that loads the session into the
// request context and commits it before the response headers go out.
func (sm *SessionManager) LoadAndSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		committed := false
		commit := func() {
			if committed {
				return
			}
			committed = true
			sm.saveCookie(c)
		}
		c.Writer = &committingWriter{ResponseWriter: c.Writer, commit: commit}

		c.Next()

		// Handlers that never wrote anything still need their cookie.
		commit()
	}
}

func (sm *SessionManager) saveCookie(c *gin.Context) {
	ctx := c.Request.Context()
	w := c.Writer

	switch sm.Status(ctx) {
	case scs.Modified:
		token, expiry, err := sm.Commit(ctx)
		if err != nil {
			_ = c.Error(err)
			return
		}
		sm.WriteSessionCookie(ctx, w, token, expiry)
	case scs.Destroyed:
		sm.WriteSessionCookie(ctx, w, "", time.Time{})
	}
}
