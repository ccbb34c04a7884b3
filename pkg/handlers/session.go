package handlers

import (
	"crypto/sha1"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path"
	"strconv"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/pbkdf2"

	"github.com/spencer-p/lowtide/pkg/tides"
)

const (
	sessionName       = "low-tides"
	sessionLastViewed = "last-viewed"
	zipKey            = "zip"
	lowKey            = "low"
	weekdaysKey       = "weekdays"
	defaultKey        = "deadbeef"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.
)

//go:embed static
var content embed.FS

var configTemplate = template.Must(template.ParseFS(content, "static/config.template.html"))

// NewStore builds the cookie store for preferences. Cookies are signed with
// sessionKey and encrypted with a key derived from encryptionKey.
func NewStore(sessionKey, encryptionKey string) *sessions.CookieStore {
	store := &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(
			[]byte(valueOr(sessionKey, defaultKey)),
			deriveKey(valueOr(encryptionKey, defaultKey)),
		),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			Secure:   true,
			HttpOnly: true,
		},
	}
	store.MaxAge(defaultMaxAge)
	return store
}

func deriveKey(password string) []byte {
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}

// preferences are the per visitor defaults kept in the session.
type preferences struct {
	Zip      int
	Low      float64
	Weekdays string
}

func (s *Server) preferencesFrom(session *sessions.Session) preferences {
	prefs := preferences{
		Zip:      s.opts.DefaultZip,
		Low:      0,
		Weekdays: tides.AllWeekdays.String(),
	}
	if zip, ok := session.Values[zipKey].(int); ok {
		prefs.Zip = zip
	}
	if low, ok := session.Values[lowKey].(float64); ok {
		prefs.Low = low
	}
	if days, ok := session.Values[weekdaysKey].(string); ok {
		prefs.Weekdays = days
	}
	return prefs
}

func (s *Server) makeConfigPreferences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := s.opts.Sessions.Get(r, sessionName)

		if r.Method == http.MethodGet {
			w.Header().Add("Content-Type", "text/html")
			if err := configTemplate.Execute(w, s.preferencesFrom(session)); err != nil {
				log.Printf("Failed to write configTemplate: %v", err)
			}
			return
		}

		// The remainder of this function assumes method is POST.
		prefs, err := parsePreferences(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Failed to save preferences: %v\n", err)
			log.Printf("Failed to save preferences: %v", err)
			return
		}
		session.Values[zipKey] = prefs.Zip
		session.Values[lowKey] = prefs.Low
		session.Values[weekdaysKey] = prefs.Weekdays
		if err := session.Save(r, w); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "Failed to save preferences: %v\n", err)
			log.Printf("Failed to save preferences: %v", err)
			return
		}

		// Redirect to whatever they saw last, or the lookup with no arguments.
		redirectTo, ok := session.Values[sessionLastViewed].(string)
		if !ok {
			redirectTo = pathJoinPreservePrefix(s.opts.Prefix, "api/v1/lowtides")
		}
		http.Redirect(w, r, redirectTo, http.StatusFound)
	}
}

func parsePreferences(r *http.Request) (preferences, error) {
	if err := r.ParseForm(); err != nil {
		return preferences{}, err
	}
	var prefs preferences
	var err error
	if prefs.Zip, err = strconv.Atoi(r.PostForm.Get("zip")); err != nil || prefs.Zip < 0 || prefs.Zip > 99999 {
		return preferences{}, fmt.Errorf("zip code %q is not 0-99999", r.PostForm.Get("zip"))
	}
	if prefs.Low, err = strconv.ParseFloat(valueOr(r.PostForm.Get("low"), "0"), 64); err != nil {
		return preferences{}, fmt.Errorf("low tide %q: %w", r.PostForm.Get("low"), err)
	}
	weekdays, err := tides.ParseWeekdays(valueOr(r.PostForm.Get("weekdays"), tides.AllWeekdays.String()))
	if err != nil {
		return preferences{}, err
	}
	prefs.Weekdays = weekdays.String()
	return prefs, nil
}

// pathJoinPreservePrefix joins suffix onto prefix, keeping a trailing slash
// on prefix when suffix adds nothing.
func pathJoinPreservePrefix(prefix string, suffix string) string {
	trimmedPrefix := path.Join(prefix, "")
	result := path.Join(prefix, suffix)
	if result == trimmedPrefix {
		return prefix
	}
	return result
}
