package api

// KV is the slice of the durable key-value store the client needs for
// credential persistence.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

const accessTokenKey = "kusafe_access_token"

// TokenStore holds the opaque bearer token between runs.
type TokenStore struct {
	kv KV
}

func NewTokenStore(kv KV) *TokenStore {
	return &TokenStore{kv: kv}
}

func (t *TokenStore) Token() (string, bool) {
	return t.kv.Get(accessTokenKey)
}

func (t *TokenStore) Save(token string) {
	t.kv.Set(accessTokenKey, token)
}

func (t *TokenStore) Clear() {
	t.kv.Delete(accessTokenKey)
}
