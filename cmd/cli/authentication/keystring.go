package authentication

// keystring.go persists the logged-in user record in the OS keyring.
import (
	"encoding/json"
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "campusmess"
	sessionKey  = "campusmess_user"
)

// ErrNoSession is returned when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// Session is the durable logged-in state.
type Session struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	College string `json:"college"`
	Token   string `json:"token"`
}

func SaveSession(s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, sessionKey, string(data))
}

// LoadSession returns ErrNoSession when no record exists. A record that does
// not decode is removed and also reported as ErrNoSession.
func LoadSession() (*Session, error) {
	value, err := keyring.Get(serviceName, sessionKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(value), &s); err != nil || s.Token == "" {
		_ = keyring.Delete(serviceName, sessionKey)
		return nil, ErrNoSession
	}
	return &s, nil
}

// DeleteSession is idempotent.
func DeleteSession() error {
	err := keyring.Delete(serviceName, sessionKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
