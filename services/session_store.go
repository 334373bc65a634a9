package services

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/pedidoshn/pedidos-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const SessionCookieName = "pedidoshn.sid"

// Keys of the values kept in a logged-in session.
const (
	SessionKeyUserID  = "id"
	SessionKeyName    = "nombre"
	SessionKeyEmail   = "email"
	SessionKeyIsAdmin = "es_admin"
)

var errSessionNotFound = errors.New("session not found")

// SessionStore is a sessions.Store keeping session values in the session table. The
// cookie only carries the signed session id.
type SessionStore struct {
	DB      *gorm.DB
	Codecs  []securecookie.Codec
	Options *sessions.Options
}

func NewSessionStore(db *gorm.DB, maxAge int, keyPairs ...[]byte) *SessionStore {
	codecs := securecookie.CodecsFromPairs(keyPairs...)
	for _, codec := range codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(maxAge)
		}
	}
	return &SessionStore{
		DB:     db,
		Codecs: codecs,
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   maxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

func (s *SessionStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns the stored session for the request cookie, or a fresh one when there is
// no cookie or the row is gone or expired.
func (s *SessionStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, cookie.Value, &session.ID, s.Codecs...); err != nil {
		session.ID = ""
		return session, err
	}

	err = s.load(r.Context(), session)
	if errors.Is(err, errSessionNotFound) {
		session.ID = ""
		return session, nil
	}
	if err != nil {
		return session, err
	}
	session.IsNew = false
	return session, nil
}

// Save persists the session, or deletes it when Options.MaxAge < 0.
func (s *SessionStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.delete(r.Context(), session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}
	if err := s.save(r.Context(), session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func (s *SessionStore) save(ctx context.Context, session *sessions.Session) error {
	data, err := securecookie.EncodeMulti(session.Name(), session.Values, s.Codecs...)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	maxAge := session.Options.MaxAge
	if maxAge == 0 {
		maxAge = s.Options.MaxAge
	}
	// UTC keeps expiry comparable when the driver stores times as text
	row := models.Session{
		Sid:    session.ID,
		Data:   data,
		Expire: time.Now().UTC().Add(time.Duration(maxAge) * time.Second),
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sid"}},
		DoUpdates: clause.AssignmentColumns([]string{"sess", "expire"}),
	}).Create(&row).Error
}

func (s *SessionStore) load(ctx context.Context, session *sessions.Session) error {
	var row models.Session
	err := s.DB.WithContext(ctx).
		Where("sid = ? AND expire > ?", session.ID, time.Now().UTC()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	return securecookie.DecodeMulti(session.Name(), row.Data, &session.Values, s.Codecs...)
}

func (s *SessionStore) delete(ctx context.Context, sid string) error {
	return s.DB.WithContext(ctx).Where("sid = ?", sid).Delete(&models.Session{}).Error
}

// DeleteExpired removes rows past their expiry and returns how many went.
func (s *SessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Where("expire <= ?", now.UTC()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
