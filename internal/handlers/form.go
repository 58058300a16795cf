package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"primarycat/internal/primary"
	"primarycat/internal/session"
)

var errNoSession = errors.New("no session")

// ParsePrimaryCategoryForm builds the save inputs for contentID from a form
// post. An autosave is flagged by the X-Autosave header or the autosave
// field. A request with no form field at all has HasSelection false.
func ParsePrimaryCategoryForm(r *http.Request, contentID uuid.UUID, sess *session.Data) (primary.AuthContext, primary.Submission, error) {
	if sess == nil {
		return primary.AuthContext{}, primary.Submission{}, errNoSession
	}
	if err := r.ParseForm(); err != nil {
		return primary.AuthContext{}, primary.Submission{}, fmt.Errorf("parse form: %w", err)
	}

	ac := primary.AuthContext{
		SessionID: sess.ID,
		Caller:    sess.Caller(),
		Autosave:  r.Header.Get("X-Autosave") == "1" || r.PostForm.Get("autosave") == "1",
	}
	sub := primary.Submission{
		ContentID:    contentID,
		Nonce:        r.PostForm.Get(primary.NonceField),
		Selection:    r.PostForm.Get(primary.FieldName),
		HasSelection: r.PostForm.Has(primary.FieldName),
	}
	return ac, sub, nil
}
