package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	garmr "github.com/shipdventures/neoma-garmr"
)

// ErrRedisUnavailable wraps transport-level Redis failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

// createPrincipalScript claims the email index key and writes the principal
// blob in one atomic step. Returns 0 when the email is already taken.
const createPrincipalScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("SET", KEYS[1], ARGV[1])
redis.call("SET", KEYS[2], ARGV[2])
return 1
`

var createPrincipalLua = redis.NewScript(createPrincipalScript)

// savePrincipalScript rewrites a principal blob and, when the email
// changed, moves the index entry — claiming the new address first so the
// unique constraint holds. Returns 0 when the new email is already taken.
const savePrincipalScript = `
if ARGV[3] == "1" then
  if redis.call("EXISTS", KEYS[1]) == 1 then
    return 0
  end
  redis.call("SET", KEYS[1], ARGV[1])
  redis.call("DEL", KEYS[3])
end
redis.call("SET", KEYS[2], ARGV[2])
return 1
`

var savePrincipalLua = redis.NewScript(savePrincipalScript)

// Redis is a PrincipalStore backed by a Redis client. All keys are
// namespaced under the given prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis principal store. An empty prefix defaults to
// "garmr".
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "garmr"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) principalKey(id string) string {
	return r.prefix + ":principal:" + id
}

func (r *Redis) emailKey(email string) string {
	return r.prefix + ":email:" + email
}

// FindByID returns the principal stored under id.
func (r *Redis) FindByID(ctx context.Context, id string) (*garmr.Principal, error) {
	blob, err := r.client.Get(ctx, r.principalKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, garmr.ErrPrincipalNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrRedisUnavailable, err)
	}
	return decodePrincipal(blob)
}

// FindByEmail resolves the email index and returns the principal.
func (r *Redis) FindByEmail(ctx context.Context, email string) (*garmr.Principal, error) {
	id, err := r.client.Get(ctx, r.emailKey(strings.ToLower(email))).Result()
	if errors.Is(err, redis.Nil) {
		return nil, garmr.ErrPrincipalNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrRedisUnavailable, err)
	}
	return r.FindByID(ctx, id)
}

// Create persists a new principal, assigning a UUID when p.ID is empty.
// Fails with garmr.ErrEmailTaken when the lowercased email is already
// indexed.
func (r *Redis) Create(ctx context.Context, p *garmr.Principal) (*garmr.Principal, error) {
	created := clonePrincipal(p)
	created.Email = strings.ToLower(created.Email)
	if created.Email == "" {
		return nil, garmr.ErrEmailRequired
	}
	if created.ID == "" {
		created.ID = uuid.NewString()
	}

	blob, err := json.Marshal(created)
	if err != nil {
		return nil, err
	}

	keys := []string{r.emailKey(created.Email), r.principalKey(created.ID)}
	claimed, err := createPrincipalLua.Run(ctx, r.client, keys, created.ID, blob).Int64()
	if err != nil {
		return nil, errors.Join(ErrRedisUnavailable, err)
	}
	if claimed == 0 {
		return nil, garmr.ErrEmailTaken
	}

	return created, nil
}

// Save rewrites an existing principal. When the email changed the index is
// moved atomically, failing with garmr.ErrEmailTaken if the new address is
// already held by another principal.
func (r *Redis) Save(ctx context.Context, p *garmr.Principal) error {
	if p == nil || p.ID == "" {
		return garmr.ErrPrincipalNotFound
	}

	existing, err := r.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}

	updated := clonePrincipal(p)
	updated.Email = strings.ToLower(updated.Email)
	if updated.Email == "" {
		return garmr.ErrEmailRequired
	}

	blob, err := json.Marshal(updated)
	if err != nil {
		return err
	}

	emailChanged := "0"
	if updated.Email != existing.Email {
		emailChanged = "1"
	}

	keys := []string{
		r.emailKey(updated.Email),
		r.principalKey(updated.ID),
		r.emailKey(existing.Email),
	}
	claimed, err := savePrincipalLua.Run(ctx, r.client, keys, updated.ID, blob, emailChanged).Int64()
	if err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	if claimed == 0 {
		return garmr.ErrEmailTaken
	}

	return nil
}

func decodePrincipal(blob []byte) (*garmr.Principal, error) {
	var p garmr.Principal
	if err := json.Unmarshal(blob, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func clonePrincipal(p *garmr.Principal) *garmr.Principal {
	out := *p
	if p.Permissions != nil {
		out.Permissions = append([]string(nil), p.Permissions...)
	}
	return &out
}
