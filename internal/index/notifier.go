// Package index tells the operator-deployed indexing service to re-scan a
// path after a transfer. The service's exact API surface varies by version,
// so a refresh walks an ordered list of request strategies and settles for
// the first one that sticks.
package index

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jenfonro/sharesync/internal/conf"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jenfonro/sharesync/pkg/utils"
)

const requestTimeout = 10 * time.Second

var ErrNoEndpoint = errors.New("index endpoint is not configured")

// Settings yields the current operator configuration.
type Settings interface {
	Get(key string) string
}

// PathResolver maps a provider folder id to its path segments.
type PathResolver interface {
	ResolvePath(ctx context.Context, folderID string) ([]string, error)
}

type Notifier struct {
	client   *resty.Client
	settings Settings
	resolver PathResolver
}

func NewNotifier(settings Settings, resolver PathResolver) *Notifier {
	return &Notifier{
		client:   resty.New().SetTimeout(requestTimeout),
		settings: settings,
		resolver: resolver,
	}
}

// strategy is one request shape against one route.
type strategy struct {
	name string
	url  string
	body func(path string) any
}

type kind int

const (
	classSuccess  kind = iota
	classMiss          // wrong endpoint for this deployment, try the next
	classSoftFail      // endpoint answered with a business failure
	classHardFail      // no strategy can succeed, stop immediately
)

type verdict struct {
	kind    kind
	message string
}

type indexResp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Refresh resolves the target folder's path, translates it into the indexing
// service's namespace and walks the strategy list. The returned message names
// the strategy that succeeded.
func (n *Notifier) Refresh(ctx context.Context, targetFolderID string) (string, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(n.settings.Get(conf.SettingIndexEndpoint)), "/")
	if endpoint == "" {
		return "", ErrNoEndpoint
	}
	indexPath, err := n.resolveIndexPath(ctx, targetFolderID)
	if err != nil {
		return "", err
	}
	token := normalizeToken(n.settings.Get(conf.SettingIndexToken))

	strategies := buildStrategies(endpoint)
	var lastErr error
	for _, st := range strategies {
		v := n.attempt(ctx, st, indexPath, token)
		switch v.kind {
		case classSuccess:
			log.Debugf("[index] refresh ok via %s: %s", st.name, indexPath)
			return st.name, nil
		case classHardFail:
			return "", errors.Errorf("index refresh rejected (%s): %s", st.name, v.message)
		default:
			log.Debugf("[index] strategy %s missed: %s", st.name, v.message)
			lastErr = errors.Errorf("%s: %s", st.name, v.message)
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no strategy available")
	}
	return "", errors.Wrapf(lastErr, "all index refresh strategies failed")
}

func (n *Notifier) resolveIndexPath(ctx context.Context, targetFolderID string) (string, error) {
	segments, err := n.resolver.ResolvePath(ctx, targetFolderID)
	if err != nil {
		return "", errors.Wrapf(err, "failed resolve target path")
	}
	targetPath := "/" + strings.Join(segments, "/")
	if len(segments) == 0 {
		targetPath = "/"
	}

	mountPath := strings.TrimRight(strings.TrimSpace(n.settings.Get(conf.SettingMountPath)), "/")
	if mountPath == "" {
		return targetPath, nil
	}
	rootPath := "/"
	if rootID := n.settings.Get(conf.SettingRootFolderID); rootID != "" && rootID != "0" {
		rootSegments, err := n.resolver.ResolvePath(ctx, rootID)
		if err != nil {
			return "", errors.Wrapf(err, "failed resolve root path")
		}
		rootPath = "/" + strings.Join(rootSegments, "/")
	}
	// Translate the storage-provider path into the indexing service's mount
	// namespace when the target sits under the configured root.
	if rootPath != "/" && strings.HasPrefix(targetPath, rootPath) {
		return mountPath + strings.TrimPrefix(targetPath, rootPath), nil
	}
	if rootPath == "/" {
		return mountPath + targetPath, nil
	}
	return targetPath, nil
}

func normalizeToken(token string) string {
	token = strings.TrimSpace(token)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

func singlePath(path string) any { return map[string]any{"path": path} }
func pathList(path string) any   { return map[string]any{"paths": []string{path}} }

// buildStrategies returns the ordered request shapes. An endpoint already
// carrying an explicit API route becomes the only strategy; a bare base URL
// gets the well-known routes in fixed priority order.
func buildStrategies(endpoint string) []strategy {
	if strings.Contains(endpoint, "/api/") {
		body := singlePath
		if strings.Contains(endpoint, "index/update") {
			body = pathList
		}
		return []strategy{{name: "configured", url: endpoint, body: body}}
	}
	return []strategy{
		{name: "index-update", url: endpoint + "/api/admin/index/update", body: pathList},
		{name: "index-update-folder", url: endpoint + "/api/admin/index/update/folder", body: pathList},
		{name: "index-build", url: endpoint + "/api/admin/index/build", body: singlePath},
		{name: "index-refresh", url: endpoint + "/api/index/update", body: singlePath},
	}
}

func (n *Notifier) attempt(ctx context.Context, st strategy, path, token string) verdict {
	req := n.client.R().SetContext(ctx).SetBody(st.body(path))
	if token != "" {
		req.SetHeader("Authorization", token)
	}
	res, err := req.Post(st.url)
	if err != nil {
		return verdict{kind: classSoftFail, message: err.Error()}
	}
	return classify(res.Body())
}

// classify turns a raw response into a tagged verdict. An HTML document means
// the route does not exist on this deployment; a JSON business failure is
// retryable with the next strategy unless it reports the index feature as
// disabled, which no strategy can get around.
func classify(body []byte) verdict {
	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(text, "<") || strings.Contains(strings.ToLower(text), "<!doctype") {
		return verdict{kind: classMiss, message: "html response, wrong endpoint"}
	}
	var resp indexResp
	if err := utils.Json.Unmarshal(body, &resp); err != nil {
		return verdict{kind: classSoftFail, message: "unrecognized response: " + truncate(text, 120)}
	}
	if resp.Code == 0 || resp.Code == 200 {
		return verdict{kind: classSuccess}
	}
	if featureDisabled(resp.Message) {
		return verdict{kind: classHardFail, message: resp.Message}
	}
	return verdict{kind: classSoftFail, message: resp.Message}
}

func featureDisabled(message string) bool {
	msg := strings.ToLower(message)
	return strings.Contains(msg, "disabled") ||
		strings.Contains(msg, "not enabled") ||
		strings.Contains(message, "未启用") ||
		strings.Contains(message, "未开启")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
