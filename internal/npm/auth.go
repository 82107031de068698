// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"npmrelease-cli/internal/npmrc"
	"npmrelease-cli/internal/release"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const defaultWhoamiTimeout = 30 * time.Second

type (
	// CredentialStore is the slice of npmrc.Store the verifier writes through.
	CredentialStore interface {
		Path() string
		WriteAuth(registry string, env map[string]string) error
	}

	// AuthVerifier writes registry credentials into the shared .npmrc and
	// checks them with the registry's whoami endpoint.
	AuthVerifier struct {
		store         CredentialStore
		client        *http.Client
		allRegistries bool
	}

	// whoamiRejected is a registry answering whoami with a non-2xx status.
	// Only this outcome means the token is bad; transport and context errors
	// are returned as they are.
	whoamiRejected struct {
		status string
	}

	// AuthOption configures an AuthVerifier.
	AuthOption func(*AuthVerifier)
)

// WithHTTPClient replaces the retrying whoami client.
func WithHTTPClient(c *http.Client) AuthOption {
	return func(v *AuthVerifier) {
		v.client = c
	}
}

// WithWhoamiOnAllRegistries runs whoami against every registry, not only the public one.
// Private registries frequently do not implement whoami, so this is off by default.
func WithWhoamiOnAllRegistries(enabled bool) AuthOption {
	return func(v *AuthVerifier) {
		v.allRegistries = enabled
	}
}

// NewAuthVerifier creates an AuthVerifier writing through store.
func NewAuthVerifier(store CredentialStore, opts ...AuthOption) *AuthVerifier {
	v := &AuthVerifier{store: store}
	for _, opt := range opts {
		opt(v)
	}
	if v.client == nil {
		v.client = newWhoamiClient()
	}
	return v
}

func newWhoamiClient() *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	// default CheckRetry retries on 429/5xx and honors Retry-After
	rc.Logger = nil
	client := rc.StandardClient()
	client.Timeout = defaultWhoamiTimeout
	return client
}

// Verify makes sure npm can authenticate against the package's registry.
func (v *AuthVerifier) Verify(ctx context.Context, credPath string, m release.Manifest, rctx *release.Context) error {
	if credPath != v.store.Path() {
		return fmt.Errorf("credential file %s is not managed by this verifier", credPath)
	}

	registry, err := ResolveRegistry(m, rctx)
	if err != nil {
		return err
	}

	log := rctx.Log()
	log.Info("Verify authentication for registry", "registry", registry)

	if err := v.store.WriteAuth(registry, rctx.Env); err != nil {
		if errors.Is(err, npmrc.ErrNoToken) {
			return release.NewError(release.CodeNoNpmToken, fmt.Sprintf(
				"An [npm token](https://docs.npmjs.com/getting-started/working_with_tokens#how-to-create-new-tokens) "+
					"must be created and set in the `NPM_TOKEN` environment variable to publish to `%s`.", registry))
		}
		return err
	}

	if !v.allRegistries && !IsDefaultRegistry(registry) {
		log.Debug("Skip whoami for custom registry", "registry", registry)
		return nil
	}

	user, err := v.whoami(ctx, registry, rctx.Env)
	if err != nil {
		log.Debug("whoami failed", "registry", registry, "err", err)
		var rejected *whoamiRejected
		if !errors.As(err, &rejected) {
			return fmt.Errorf("failed to check npm token against %s: %w", registry, err)
		}
		return release.NewError(release.CodeInvalidNpmToken, fmt.Sprintf(
			"The npm token configured in the `NPM_TOKEN` environment variable must be a valid "+
				"[token](https://docs.npmjs.com/getting-started/working_with_tokens) allowing to publish to `%s`.\n\n"+
				"The registry answered: %v", registry, err))
	}
	log.Debug("Authenticated", "registry", registry, "user", user)
	return nil
}

func (v *AuthVerifier) whoami(ctx context.Context, registry string, env map[string]string) (string, error) {
	cfg, err := npmrc.Load(v.store.Path())
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, registry+"-/whoami", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	if auth := cfg.Authorization(registry, env); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &whoamiRejected{status: resp.Status}
	}
	return whoamiUser(body), nil
}

func (e *whoamiRejected) Error() string {
	return e.status
}

func whoamiUser(body []byte) string {
	return gjson.GetBytes(body, "username").String()
}
