package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/irsalhamdi/marble-store/api/web"
)

const (
	userToken  = "user-token"
	adminToken = "admin-token"
)

type mockUser struct {
	ID       string
	Name     string
	Email    string
	Password string
	Token    string
	IsAdmin  bool
}

// mockBackend stands in for the marble REST API. Marbles are kept as raw
// JSON so tests can mix string and numeric ids.
type mockBackend struct {
	mu       sync.Mutex
	marbles  []json.RawMessage
	orders   []map[string]any
	comments map[string][]map[string]any
	users    map[string]mockUser
	down     bool
	nextID   int
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		marbles: []json.RawMessage{
			json.RawMessage(`{"_id":"a","name":"Carrara","price":30,"stars":5,"favorite":true,"tags":["white"],"imageurl":"a.jpg","descriptions":"classic white"}`),
			json.RawMessage(`{"_id":"b","name":"Bianco","price":"10","stars":4,"tags":["white","grey"],"imageurl":"b.jpg"}`),
			json.RawMessage(`{"id":3,"name":"Nero","price":60,"stars":2,"tags":["black"],"imageurl":"n.jpg"}`),
			json.RawMessage(`{"_id":"d","name":"Onyx","price":45.5,"favorite":true,"imageurl":"d.jpg"}`),
		},
		comments: make(map[string][]map[string]any),
		users:    make(map[string]mockUser),
	}
}

func (m *mockBackend) addUser(u mockUser) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Email] = u
}

func (m *mockBackend) setDown(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.down = down
}

func (m *mockBackend) submitted() []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]map[string]any(nil), m.orders...)
}

func (m *mockBackend) find(id string) (json.RawMessage, bool) {
	for _, raw := range m.marbles {
		var p struct {
			ID    any `json:"id"`
			Mongo any `json:"_id"`
		}
		json.Unmarshal(raw, &p)
		for _, v := range []any{p.ID, p.Mongo} {
			if v != nil && fmt.Sprint(v) == id {
				return raw, true
			}
		}
	}
	return nil, false
}

func (m *mockBackend) token(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func (m *mockBackend) handle() http.Handler {
	respond := func(w http.ResponseWriter, data any, status int) {
		web.Respond(context.Background(), w, data, status)
	}

	// admin guards the routes only administrators may call.
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if m.token(r) != adminToken {
				respond(w, map[string]string{"message": "admin only"}, http.StatusForbidden)
				return
			}
			h(w, r)
		}
	}

	marbles := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		respond(w, m.marbles, http.StatusOK)
	})

	marble := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		raw, ok := m.find(mux.Vars(r)["id"])
		if !ok {
			respond(w, map[string]string{"message": "marble not found"}, http.StatusNotFound)
			return
		}
		respond(w, raw, http.StatusOK)
	})

	tags := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, []any{"white", "grey", "black", nil}, http.StatusOK)
	})

	create := admin(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respond(w, nil, http.StatusBadRequest)
			return
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		m.nextID++
		body["_id"] = fmt.Sprintf("new-%d", m.nextID)
		raw, _ := json.Marshal(body)
		m.marbles = append(m.marbles, raw)
		respond(w, json.RawMessage(raw), http.StatusCreated)
	})

	remove := admin(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		id := mux.Vars(r)["id"]
		for i, raw := range m.marbles {
			if strings.Contains(string(raw), `"_id":"`+id+`"`) {
				m.marbles = append(m.marbles[:i], m.marbles[i+1:]...)
				respond(w, map[string]string{"message": "deleted"}, http.StatusOK)
				return
			}
		}
		respond(w, map[string]string{"message": "marble not found"}, http.StatusNotFound)
	})

	upload := admin(func(w http.ResponseWriter, r *http.Request) {
		f, fh, err := r.FormFile("image")
		if err != nil {
			respond(w, map[string]string{"message": "no image"}, http.StatusBadRequest)
			return
		}
		defer f.Close()
		io.Copy(io.Discard, f)
		respond(w, map[string]any{"data": map[string]string{"secure_url": "https://cdn.test/" + fh.Filename}}, http.StatusOK)
	})

	submit := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.down {
			respond(w, map[string]string{"message": "database unavailable"}, http.StatusInternalServerError)
			return
		}

		var ord map[string]any
		if err := json.NewDecoder(r.Body).Decode(&ord); err != nil {
			respond(w, map[string]any{"success": false, "message": "invalid order"}, http.StatusOK)
			return
		}
		if items, _ := ord["list_marbles"].([]any); len(items) == 0 {
			respond(w, map[string]any{"success": false, "message": "empty order"}, http.StatusOK)
			return
		}

		ord["_id"] = fmt.Sprintf("o%d", len(m.orders)+1)
		ord["status"] = "pending"
		m.orders = append(m.orders, ord)
		respond(w, map[string]any{"success": true, "message": "order created", "data": ord}, http.StatusCreated)
	})

	orders := admin(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		respond(w, map[string]any{"data": m.orders}, http.StatusOK)
	})

	validateOrder := admin(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, o := range m.orders {
			if o["_id"] == mux.Vars(r)["id"] {
				o["status"] = "validated"
				respond(w, o, http.StatusOK)
				return
			}
		}
		respond(w, map[string]string{"message": "order not found"}, http.StatusNotFound)
	})

	comments := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		cs := m.comments[mux.Vars(r)["id"]]
		if cs == nil {
			cs = []map[string]any{}
		}
		respond(w, cs, http.StatusOK)
	})

	addComment := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.token(r) == "" {
			respond(w, map[string]string{"message": "login required"}, http.StatusUnauthorized)
			return
		}

		var c map[string]any
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			respond(w, nil, http.StatusBadRequest)
			return
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		mid, _ := c["marbleId"].(string)
		c["_id"] = fmt.Sprintf("c%d", len(m.comments[mid])+1)
		m.comments[mid] = append(m.comments[mid], c)
		respond(w, c, http.StatusCreated)
	})

	login := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var l struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
			respond(w, nil, http.StatusBadRequest)
			return
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		u, ok := m.users[l.Email]
		if !ok || u.Password != l.Password {
			respond(w, map[string]string{"message": "invalid credentials"}, http.StatusUnauthorized)
			return
		}
		respond(w, m.account(u), http.StatusOK)
	})

	register := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reg struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			respond(w, nil, http.StatusBadRequest)
			return
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.users[reg.Email]; ok {
			respond(w, map[string]string{"message": "email already registered"}, http.StatusConflict)
			return
		}
		u := mockUser{ID: fmt.Sprintf("u%d", len(m.users)+1), Name: reg.Name, Email: reg.Email, Password: reg.Password, Token: userToken}
		m.users[u.Email] = u
		respond(w, m.account(u), http.StatusCreated)
	})

	r := mux.NewRouter()
	r.Handle("/api/marble", marbles).Methods("GET")
	r.Handle("/api/marble/tags", tags).Methods("GET")
	r.Handle("/api/marble/create", create).Methods("POST")
	r.Handle("/api/marble/upload", upload).Methods("POST")
	r.Handle("/api/marble/{id}", marble).Methods("GET")
	r.Handle("/api/marble/{id}", remove).Methods("DELETE")
	r.Handle("/api/commande", submit).Methods("POST")
	r.Handle("/api/commande", orders).Methods("GET")
	r.Handle("/api/commande/{id}/validate", validateOrder).Methods("PUT")
	r.Handle("/api/comments/marble/{id}", comments).Methods("GET")
	r.Handle("/api/comments/add", addComment).Methods("POST")
	r.Handle("/api/users/login", login).Methods("POST")
	r.Handle("/api/users/register", register).Methods("POST")
	return r
}

func (m *mockBackend) account(u mockUser) map[string]any {
	return map[string]any{"_id": u.ID, "name": u.Name, "email": u.Email, "token": u.Token, "isAdmin": u.IsAdmin}
}
