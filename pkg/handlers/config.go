package handlers

import (
	"crypto/sha256"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/marees/tidegraph/pkg/data"
	"github.com/marees/tidegraph/pkg/locale"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/pbkdf2"
	"gorm.io/gorm"
)

const sessionName = "tidegraph"

var (
	store    *sessions.CookieStore
	db       *gorm.DB
	initOnce sync.Once
)

// lazyInit connects sessions and the database on first use. Without postgres
// the server still serves graphs; preferences just cannot be saved.
func lazyInit() {
	initOnce.Do(func() {
		store = sessions.NewCookieStore(getSessionKey(), getEncryptionKey())
		var err error
		if db, err = data.PostgresFromEnv(); err != nil {
			log.Printf("No preference database: %+v", err)
		}
	})
}

func getSessionKey() []byte {
	return stretchedEnvKey("SESSION_AUTH_SECRET")
}

func getEncryptionKey() []byte {
	return stretchedEnvKey("SESSION_ENC_SECRET")
}

// stretchedEnvKey derives a 32 byte key from an environment secret. An unset
// secret falls back to a random key, invalidating sessions on restart.
func stretchedEnvKey(name string) []byte {
	secret := os.Getenv(name)
	if secret == "" {
		log.Printf("%s unset, sessions will not survive a restart", name)
		return securecookie.GenerateRandomKey(32)
	}
	return pbkdf2.Key([]byte(secret), []byte(name), 4096, 32, sha256.New)
}

// viewerFromSession loads the saved preferences of the visitor's session, or
// nil when there is no session or no saved viewer.
func viewerFromSession(r *http.Request) *data.Viewer {
	lazyInit()
	session, err := store.Get(r, sessionName)
	if err != nil {
		return nil
	}
	id, ok := session.Values["viewer"].(uint)
	if !ok || db == nil {
		return nil
	}
	var viewer data.Viewer
	if err := db.First(&viewer, id).Error; err != nil {
		return nil
	}
	return &viewer
}

var configTemplate = template.Must(template.New("config").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<form method="POST">
<label>Name <input type="text" name="name" value="{{.Viewer.Name}}"></label><br>
<label>Harbor
<select name="harbor">
{{range .Harbors}}<option value="{{.}}"{{if eq . $.Viewer.Harbor}} selected{{end}}>{{.}}</option>
{{end}}</select>
</label><br>
<label>Language
<select name="lang">
<option value="fr"{{if eq .Viewer.Lang "fr"}} selected{{end}}>Français</option>
<option value="en"{{if eq .Viewer.Lang "en"}} selected{{end}}>English</option>
</select>
</label><br>
<label>Minimum depth (m) <input type="number" name="min_depth" step="0.1" min="0" value="{{.MinDepth}}"></label><br>
<input type="submit" value="Save">
</form>
</body>
</html>
`))

// makeConfigPreferences serves the preference form and saves submissions to
// the viewer's database row, keyed through the session cookie.
func makeConfigPreferences(prefix string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lazyInit()
		if db == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "Preferences are unavailable without a database")
			return
		}
		session, err := store.Get(r, sessionName)
		if err != nil {
			// A stale cookie from a previous key still yields a fresh session.
			log.Printf("Resetting undecodable session: %+v", err)
		}

		if r.Method == http.MethodPost {
			if err := saveViewer(w, r, session); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprintf(w, "Failed to save preferences")
				log.Printf("Failed to save viewer: %+v", err)
				return
			}
			http.Redirect(w, r, path.Join("/", prefix, "config"), http.StatusSeeOther)
			return
		}

		viewer := &data.Viewer{Harbor: defaultHarbor, Lang: defaultLang}
		if id, ok := session.Values["viewer"].(uint); ok {
			if err := db.First(viewer, id).Error; err != nil {
				log.Printf("Session viewer %d not found: %+v", id, err)
			}
		}

		minDepth := ""
		if viewer.MinDepth != nil {
			minDepth = strconv.FormatFloat(*viewer.MinDepth, 'f', -1, 64)
		}
		harbors := make([]string, 0, len(places))
		for name := range places {
			harbors = append(harbors, name)
		}

		w.Header().Add("Content-Type", "text/html; charset=utf-8")
		err = configTemplate.Execute(w, struct {
			Title    string
			Lang     string
			Viewer   *data.Viewer
			MinDepth string
			Harbors  []string
		}{
			Title:    locale.Lookup(viewer.Lang, "config.title"),
			Lang:     viewer.Lang,
			Viewer:   viewer,
			MinDepth: minDepth,
			Harbors:  harbors,
		})
		if err != nil {
			log.Printf("Failed to render config page: %+v", err)
		}
	})
}

func saveViewer(w http.ResponseWriter, r *http.Request, session *sessions.Session) error {
	viewer := &data.Viewer{}
	if id, ok := session.Values["viewer"].(uint); ok {
		db.First(viewer, id)
	}

	viewer.Name = r.FormValue("name")
	viewer.Harbor = r.FormValue("harbor")
	viewer.Lang = r.FormValue("lang")
	viewer.MinDepth = nil
	if md := r.FormValue("min_depth"); md != "" {
		if v, err := strconv.ParseFloat(md, 64); err == nil && v > 0 {
			viewer.MinDepth = &v
		}
	}
	viewer.LastSeen = time.Now()

	if err := db.Save(viewer).Error; err != nil {
		return err
	}
	session.Values["viewer"] = viewer.ID
	return session.Save(r, w)
}
