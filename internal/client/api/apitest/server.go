// Package apitest provides an in-process fake of the ScholarScout backend
// for tests. It keeps users, tokens, profiles, scholarships and reviews in
// memory and serves them under /api/v1 with the same paths and error
// bodies as the real API.
package apitest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/scholarscout/internal/client/models"
	"github.com/dmitrijs2005/scholarscout/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const apiPrefix = "/api/v1"

type account struct {
	user     models.User
	password string
}

type forcedResponse struct {
	status int
	body   string
}

// Backend is a fake ScholarScout API.
type Backend struct {
	srv    *httptest.Server
	secret []byte

	mu           sync.Mutex
	nextID       int64
	accounts     map[string]*account // by email
	tokens       map[string]int64    // token -> user id
	profiles     map[int64]*models.Profile
	summaries    map[int64]*models.ProfileSummary
	scholarships []models.Scholarship
	matches      map[int64][]models.ScholarshipMatch
	reviews      []models.Review
	forced       map[string]forcedResponse // "METHOD /path" -> response
	calls        map[string]int
	lastRequest  map[string]*http.Request
}

// New starts a fake backend. It is closed when the test ends if the caller
// registers Close with t.Cleanup.
func New() *Backend {
	b := &Backend{
		secret:      []byte(uuid.NewString()),
		nextID:      1,
		accounts:    map[string]*account{},
		tokens:      map[string]int64{},
		profiles:    map[int64]*models.Profile{},
		summaries:   map[int64]*models.ProfileSummary{},
		matches:     map[int64][]models.ScholarshipMatch{},
		forced:      map[string]forcedResponse{},
		calls:       map[string]int{},
		lastRequest: map[string]*http.Request{},
	}
	b.srv = httptest.NewServer(b.routes())
	return b
}

// URL is the API base URL, including the /api/v1 prefix.
func (b *Backend) URL() string {
	return b.srv.URL + apiPrefix
}

func (b *Backend) Close() {
	b.srv.Close()
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Post("/auth/login", b.login)
		r.Post("/users/", b.createUser)
		r.Get("/oauth/{provider}/authorize", b.authorize)
		r.Get("/scholarships/", b.searchScholarships)
		r.Get("/scholarships/{id}", b.getScholarship)
		r.Get("/reviews/", b.listReviews)

		r.Group(func(r chi.Router) {
			r.Use(b.requireToken)

			r.Post("/auth/logout", b.logout)
			r.Get("/users/me", b.me)
			r.Get("/profiles/me", b.myProfile)
			r.Get("/profiles/me/summary", b.mySummary)
			r.Post("/profiles/", b.createProfile)
			r.Put("/profiles/me", b.updateProfile)
			r.Get("/scholarships/matches", b.myMatches)
			r.Post("/reviews/", b.createReview)
		})
	})
	return r
}

// AddUser registers an account directly and returns it.
func (b *Backend) AddUser(email, username, password string) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(models.RegisterInput{Email: email, Username: username, Password: password})
}

func (b *Backend) addUserLocked(in models.RegisterInput) models.User {
	u := models.User{
		ID:        b.nextID,
		Email:     in.Email,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
		CreatedAt: time.Now().UTC().Format("2006-01-02"),
	}
	b.nextID++
	b.accounts[strings.ToLower(in.Email)] = &account{user: u, password: in.Password}
	return u
}

// IssueToken creates a valid token for the user with the given id.
func (b *Backend) IssueToken(userID int64) string {
	return b.IssueTokenTTL(userID, DefaultTokenTTL)
}

// IssueTokenTTL creates a token that expires after ttl. A negative ttl
// gives a token that is already expired.
func (b *Backend) IssueTokenTTL(userID int64, ttl time.Duration) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueLocked(userID, ttl)
}

func (b *Backend) issueLocked(userID int64, ttl time.Duration) string {
	t, err := generateToken(userID, b.secret, ttl)
	if err != nil {
		panic("apitest: sign token: " + err.Error())
	}
	b.tokens[t] = userID
	return t
}

// TokenValid reports whether t is currently accepted.
func (b *Backend) TokenValid(t string) bool {
	_, err := b.authenticate(t)
	return err == nil
}

// authenticate accepts tokens that verify, have not expired and were not
// revoked by logout.
func (b *Backend) authenticate(t string) (int64, error) {
	uid, err := userIDFromToken(t, b.secret)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.tokens[t]; !ok {
		return 0, common.ErrInvalidToken
	}
	return uid, nil
}

func (b *Backend) SetSummary(userID int64, s models.ProfileSummary) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.UserID = userID
	b.summaries[userID] = &s
}

func (b *Backend) SetProfile(userID int64, p models.Profile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p.UserID = userID
	b.profiles[userID] = &p
	b.summaries[userID] = summarize(&p)
}

func (b *Backend) AddScholarship(s models.Scholarship) models.Scholarship {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.ID == 0 {
		s.ID = int64(len(b.scholarships) + 1)
	}
	b.scholarships = append(b.scholarships, s)
	return s
}

func (b *Backend) SetMatches(userID int64, m []models.ScholarshipMatch) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.matches[userID] = m
}

func (b *Backend) AddReview(r models.Review) models.Review {
	b.mu.Lock()
	defer b.mu.Unlock()
	r.ID = int64(len(b.reviews) + 1)
	b.reviews = append(b.reviews, r)
	return r
}

// Fail makes every following request to method+path answer with status and
// the raw body, until Recover is called. path excludes the /api/v1 prefix.
func (b *Backend) Fail(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forced[method+" "+path] = forcedResponse{status: status, body: body}
}

func (b *Backend) Recover(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.forced, method+" "+path)
}

// Calls returns how many requests reached method+path.
func (b *Backend) Calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method+" "+path]
}

// LastRequest returns the most recent request to method+path, or nil.
func (b *Backend) LastRequest(method, path string) *http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastRequest[method+" "+path]
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, apiPrefix)

		b.mu.Lock()
		b.calls[key]++
		b.lastRequest[key] = r.Clone(r.Context())
		forced, ok := b.forced[key]
		b.mu.Unlock()

		if ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(forced.status)
			_, _ = w.Write([]byte(forced.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

type caller struct {
	userID int64
	token  string
}

func withUser(ctx context.Context, uid int64, t string) context.Context {
	return context.WithValue(ctx, ctxKey{}, caller{userID: uid, token: t})
}

func userFrom(ctx context.Context) (int64, string) {
	c, _ := ctx.Value(ctxKey{}).(caller)
	return c.userID, c.token
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get(common.AuthorizationHeaderName)
		t, ok := strings.CutPrefix(h, common.BearerPrefix)
		if !ok || t == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		uid, err := b.authenticate(t)
		if errors.Is(err, common.ErrTokenExpired) {
			writeDetail(w, http.StatusUnauthorized, "Token has expired")
			return
		}
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), uid, t)))
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid form")
		return
	}
	email := strings.ToLower(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")

	b.mu.Lock()
	acc, ok := b.accounts[email]
	if !ok || acc.password != password {
		b.mu.Unlock()
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	t := b.issueLocked(acc.user.ID, DefaultTokenTTL)
	u := acc.user
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, models.AuthResponse{AccessToken: t, TokenType: "bearer", User: &u})
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request) {
	_, t := userFrom(r.Context())

	b.mu.Lock()
	delete(b.tokens, t)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (b *Backend) me(w http.ResponseWriter, r *http.Request) {
	uid, _ := userFrom(r.Context())

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, acc := range b.accounts {
		if acc.user.ID == uid {
			writeJSON(w, http.StatusOK, acc.user)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "User not found")
}

func (b *Backend) createUser(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if in.Email == "" || in.Username == "" || in.Password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "email"}, "msg": "field required"}},
		})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.accounts[strings.ToLower(in.Email)]; ok {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	for _, acc := range b.accounts {
		if strings.EqualFold(acc.user.Username, in.Username) {
			writeDetail(w, http.StatusBadRequest, "Username already taken")
			return
		}
	}
	writeJSON(w, http.StatusCreated, b.addUserLocked(in))
}

func (b *Backend) authorize(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if provider != "google" {
		writeDetail(w, http.StatusBadRequest, "Unsupported OAuth provider")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"authorization_url": "https://accounts.example.com/o/oauth2/auth?state=" + uuid.NewString(),
	})
}

func (b *Backend) myProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := userFrom(r.Context())

	b.mu.Lock()
	p, ok := b.profiles[uid]
	b.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Profile not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) mySummary(w http.ResponseWriter, r *http.Request) {
	uid, _ := userFrom(r.Context())

	b.mu.Lock()
	s, ok := b.summaries[uid]
	b.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Profile not found")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (b *Backend) createProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := userFrom(r.Context())

	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.profiles[uid]; ok {
		writeDetail(w, http.StatusBadRequest, "Profile already exists")
		return
	}
	p.ID = uid
	p.UserID = uid
	b.storeProfileLocked(&p)
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) updateProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := userFrom(r.Context())

	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.profiles[uid]; !ok {
		writeDetail(w, http.StatusNotFound, "Profile not found")
		return
	}
	p.ID = uid
	p.UserID = uid
	b.storeProfileLocked(&p)
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) storeProfileLocked(p *models.Profile) {
	s := summarize(p)
	p.ProfileCompleted = s.ProfileCompleted
	p.CompletionPercentage = s.CompletionPercentage
	b.profiles[p.UserID] = p
	b.summaries[p.UserID] = s
}

func (b *Backend) searchScholarships(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	category := r.URL.Query().Get("category")
	page := atoiDefault(r.URL.Query().Get("page"), 1)
	size := atoiDefault(r.URL.Query().Get("size"), 20)

	b.mu.Lock()
	var found []models.Scholarship
	for _, s := range b.scholarships {
		if q != "" && !strings.Contains(strings.ToLower(s.Title+" "+s.Description), q) {
			continue
		}
		if category != "" && !contains(s.Categories, category) {
			continue
		}
		found = append(found, s)
	}
	b.mu.Unlock()

	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })

	total := len(found)
	start := min((page-1)*size, total)
	end := min(start+size, total)

	writeJSON(w, http.StatusOK, models.ScholarshipPage{
		Items:    found[start:end],
		Total:    total,
		Page:     page,
		PageSize: size,
	})
}

func (b *Backend) getScholarship(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid scholarship id")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.scholarships {
		if s.ID == id {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Scholarship not found")
}

func (b *Backend) myMatches(w http.ResponseWriter, r *http.Request) {
	uid, _ := userFrom(r.Context())

	b.mu.Lock()
	m := b.matches[uid]
	b.mu.Unlock()
	if m == nil {
		m = []models.ScholarshipMatch{}
	}
	writeJSON(w, http.StatusOK, m)
}

func (b *Backend) listReviews(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(r.URL.Query().Get("scholarship_id"), 10, 64)

	b.mu.Lock()
	out := []models.Review{}
	for _, rev := range b.reviews {
		if id == 0 || rev.ScholarshipID == id {
			out = append(out, rev)
		}
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createReview(w http.ResponseWriter, r *http.Request) {
	uid, _ := userFrom(r.Context())

	var rev models.Review
	if err := json.NewDecoder(r.Body).Decode(&rev); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	rev.ID = int64(len(b.reviews) + 1)
	rev.UserID = uid
	rev.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	b.reviews = append(b.reviews, rev)
	writeJSON(w, http.StatusCreated, rev)
}

// summarize derives completion the way the backend does: four sections,
// each worth a quarter.
func summarize(p *models.Profile) *models.ProfileSummary {
	sec := models.ProfileSections{
		Personal:   p.FirstName != "" && p.LastName != "",
		Academic:   p.HighSchool != "" || p.GPA != nil,
		Financial:  p.HouseholdIncome != "",
		Activities: len(p.Extracurriculars) > 0 || p.VolunteerHours > 0,
	}

	missing := []string{}
	done := 0
	for _, s := range []struct {
		ok   bool
		name string
	}{
		{sec.Personal, "personal_info"},
		{sec.Academic, "academic_info"},
		{sec.Financial, "financial_info"},
		{sec.Activities, "activities"},
	} {
		if s.ok {
			done++
		} else {
			missing = append(missing, s.name)
		}
	}

	return &models.ProfileSummary{
		UserID:               p.UserID,
		ProfileCompleted:     done == 4,
		CompletionPercentage: float64(done) * 25,
		MissingFields:        missing,
		Sections:             sec,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
