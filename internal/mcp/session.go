package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session represents an MCP agent session with context
type Session struct {
	ID             string    `json:"id"`
	Initialized    bool      `json:"initialized"`
	AgentName      string    `json:"agent_name"`
	AgentModel     string    `json:"agent_model"`
	ActiveProject  string    `json:"active_project,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// SessionManager manages MCP sessions. Stdio is one connection, so a
// single global session is enough.
type SessionManager struct {
	currentSession *Session
	mu             sync.RWMutex
}

var sessionManager = &SessionManager{}

// GetCurrentSession returns the current session, creating one if needed
func GetCurrentSession() *Session {
	sessionManager.mu.Lock()
	defer sessionManager.mu.Unlock()

	if sessionManager.currentSession == nil {
		sessionManager.currentSession = &Session{
			ID:        uuid.New().String(),
			CreatedAt: time.Now(),
		}
	}
	sessionManager.currentSession.LastActivityAt = time.Now()
	return sessionManager.currentSession
}

// InitializeSession marks the session as initialized with agent info
func InitializeSession(agentName, agentModel string) *Session {
	sessionManager.mu.Lock()
	defer sessionManager.mu.Unlock()

	if sessionManager.currentSession == nil {
		sessionManager.currentSession = &Session{
			ID:        uuid.New().String(),
			CreatedAt: time.Now(),
		}
	}

	sessionManager.currentSession.Initialized = true
	sessionManager.currentSession.AgentName = agentName
	sessionManager.currentSession.AgentModel = agentModel
	sessionManager.currentSession.LastActivityAt = time.Now()

	// Persist session for recovery across MCP restarts
	go PersistSession()

	return sessionManager.currentSession
}

// SetSessionProject records the project an agent last worked in.
func SetSessionProject(project string) {
	sessionManager.mu.Lock()
	defer sessionManager.mu.Unlock()

	if sessionManager.currentSession != nil {
		sessionManager.currentSession.ActiveProject = project
		sessionManager.currentSession.LastActivityAt = time.Now()
	}
}

// IsSessionInitialized reports whether setup_agent has been called.
func IsSessionInitialized() bool {
	sessionManager.mu.RLock()
	defer sessionManager.mu.RUnlock()
	return sessionManager.currentSession != nil && sessionManager.currentSession.Initialized
}

// GetSessionContext returns a short human-readable description of the
// session for response metadata.
func GetSessionContext() string {
	sessionManager.mu.RLock()
	defer sessionManager.mu.RUnlock()

	s := sessionManager.currentSession
	if s == nil {
		return "no session"
	}
	if s.ActiveProject != "" {
		return fmt.Sprintf("agent %s, project %s", s.AgentName, s.ActiveProject)
	}
	return fmt.Sprintf("agent %s", s.AgentName)
}

func sessionFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".edtannot", "mcp_session.json"), nil
}

// PersistSession writes the current session to disk. Best effort; errors
// are ignored because losing the session only costs a setup_agent call.
func PersistSession() {
	sessionManager.mu.RLock()
	s := sessionManager.currentSession
	sessionManager.mu.RUnlock()
	if s == nil {
		return
	}

	path, err := sessionFilePath()
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0644)
}

// LoadPersistedSession restores a session written by a previous MCP run.
// Sessions older than a day are discarded.
func LoadPersistedSession() bool {
	path, err := sessionFilePath()
	if err != nil {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return false
	}
	if time.Since(s.LastActivityAt) > 24*time.Hour {
		return false
	}

	sessionManager.mu.Lock()
	defer sessionManager.mu.Unlock()
	sessionManager.currentSession = &s
	return true
}
