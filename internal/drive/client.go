// Package drive talks to the 115 web API with a cookie credential. It covers
// exactly the operations the sync engine needs: share snapshots, receive
// (transfer), deletion, recent listing and path resolution.
package drive

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"github.com/jenfonro/sharesync/pkg/utils"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	webAPI  = "https://webapi.115.com"
	userAPI = "https://my.115.com"

	snapPageSize = 100
	ua           = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var ErrNoCookie = errors.New("115 cookie is not configured")

// CookieFunc supplies the current credential so a config save takes effect
// without rebuilding the client.
type CookieFunc func() string

type Client struct {
	client *resty.Client
	cookie CookieFunc
}

func NewClient(cookie CookieFunc) *Client {
	return &Client{
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", ua),
		cookie: cookie,
	}
}

func (c *Client) request(ctx context.Context, url, method string, callback func(req *resty.Request), resp any) error {
	ck := c.cookie()
	if ck == "" {
		return ErrNoCookie
	}
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Cookie", ck)
	if resp != nil {
		req.SetResult(resp)
	}
	if callback != nil {
		callback(req)
	}
	res, err := req.Execute(method, url)
	if err != nil {
		return errors.WithStack(err)
	}
	log.Debugf("[115] %s %s: %s", method, url, res.String())
	if res.StatusCode() != http.StatusOK {
		return errors.Errorf("provider returned http %d", res.StatusCode())
	}
	return nil
}

// UserInfo verifies the cookie and returns the account name.
func (c *Client) UserInfo(ctx context.Context) (string, error) {
	var resp NavResp
	err := c.request(ctx, userAPI+"/?ct=ajax&ac=nav", http.MethodGet, nil, &resp)
	if err != nil {
		return "", err
	}
	if !resp.State {
		return "", errors.New("cookie is invalid or expired")
	}
	return resp.Data.UserName, nil
}

// GetShareSnap fetches the share's current file id list, paging through the
// snapshot. The listing order is stable on the provider side, which is what
// makes the joined fingerprint usable for change detection.
func (c *Client) GetShareSnap(ctx context.Context, shareCode, receiveCode string) (*ShareSnap, error) {
	snap := &ShareSnap{}
	offset := 0
	for {
		var resp ShareSnapResp
		err := retry.Do(func() error {
			return c.request(ctx, webAPI+"/share/snap", http.MethodGet, func(req *resty.Request) {
				req.SetQueryParams(map[string]string{
					"share_code":   shareCode,
					"receive_code": receiveCode,
					"offset":       strconv.Itoa(offset),
					"limit":        strconv.Itoa(snapPageSize),
				})
			}, &resp)
		}, retry.Attempts(3), retry.Delay(time.Second), retry.Context(ctx))
		if err != nil {
			return nil, err
		}
		if !resp.State {
			return nil, errors.Errorf("share snapshot failed: %s", resp.Error)
		}
		if snap.Title == "" {
			snap.Title = resp.Data.ShareInfo.ShareTitle
		}
		for _, f := range resp.Data.List {
			// Paging boundaries can repeat entries when the share changes
			// under us mid-walk.
			if id := f.ID(); !utils.SliceContains(snap.FileIDs, id) {
				snap.FileIDs = append(snap.FileIDs, id)
			}
		}
		offset += len(resp.Data.List)
		if len(resp.Data.List) == 0 || offset >= resp.Data.Count {
			break
		}
	}
	return snap, nil
}

// GetShareFileIDs is the change-detection entry point.
func (c *Client) GetShareFileIDs(ctx context.Context, shareCode, receiveCode string) ([]string, error) {
	snap, err := c.GetShareSnap(ctx, shareCode, receiveCode)
	if err != nil {
		return nil, err
	}
	return snap.FileIDs, nil
}

// Transfer asks the provider to receive the shared files into the target
// folder. The provider dedups content it has seen before, surfacing that as
// the "exists" status instead of an error.
func (c *Client) Transfer(ctx context.Context, targetFolderID, shareCode, receiveCode string, fileIDs []string) (*TransferResult, error) {
	var resp BaseResp
	err := c.request(ctx, webAPI+"/share/receive", http.MethodPost, func(req *resty.Request) {
		req.SetFormData(map[string]string{
			"share_code":   shareCode,
			"receive_code": receiveCode,
			"file_id":      strings.Join(fileIDs, ","),
			"cid":          targetFolderID,
		})
	}, &resp)
	if err != nil {
		return nil, err
	}
	result := &TransferResult{
		Success: resp.State,
		Count:   len(fileIDs),
		Message: resp.Error,
	}
	if !resp.State && isExists(resp) {
		result.Status = TransferStatusExists
	}
	return result, nil
}

func isExists(resp BaseResp) bool {
	if resp.ErrNo == 990009 {
		return true
	}
	msg := strings.ToLower(resp.Error)
	return strings.Contains(resp.Error, "已存在") || strings.Contains(msg, "exist")
}

// DeleteFiles removes previously transferred files. Used for stale-copy
// cleanup, where failure is advisory only.
func (c *Client) DeleteFiles(ctx context.Context, fileIDs []string) error {
	if len(fileIDs) == 0 {
		return nil
	}
	var resp BaseResp
	err := c.request(ctx, webAPI+"/rb/delete", http.MethodPost, func(req *resty.Request) {
		form := map[string]string{"ignore_warn": "1"}
		for i, id := range fileIDs {
			form[fmt.Sprintf("fid[%d]", i)] = id
		}
		req.SetFormData(form)
	}, &resp)
	if err != nil {
		return err
	}
	if !resp.State {
		return errors.Errorf("delete failed: %s", resp.Error)
	}
	return nil
}

// ListRecentItems returns the most recently added item ids inside folderID,
// newest first, bounded by limit.
func (c *Client) ListRecentItems(ctx context.Context, folderID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = snapPageSize
	}
	var resp FilesResp
	err := c.request(ctx, webAPI+"/files", http.MethodGet, func(req *resty.Request) {
		req.SetQueryParams(map[string]string{
			"cid":      folderID,
			"o":        "user_ptime",
			"asc":      "0",
			"offset":   "0",
			"limit":    strconv.Itoa(limit),
			"show_dir": "1",
		})
	}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.State {
		return nil, errors.Errorf("list failed: %s", resp.Error)
	}
	ids := make([]string, 0, len(resp.Data))
	for _, f := range resp.Data {
		ids = append(ids, f.ID())
	}
	return ids, nil
}

// ResolvePath returns the folder's ancestry as name segments from the root.
func (c *Client) ResolvePath(ctx context.Context, folderID string) ([]string, error) {
	var resp FilesResp
	err := c.request(ctx, webAPI+"/files", http.MethodGet, func(req *resty.Request) {
		req.SetQueryParams(map[string]string{
			"cid":    folderID,
			"offset": "0",
			"limit":  "1",
		})
	}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.State {
		return nil, errors.Errorf("path lookup failed: %s", resp.Error)
	}
	segments := make([]string, 0, len(resp.Path))
	for _, p := range resp.Path {
		if p.CatID == "0" {
			continue
		}
		segments = append(segments, p.Name)
	}
	return segments, nil
}

// ListFolders lists child folders for the target picker.
func (c *Client) ListFolders(ctx context.Context, parentID string) ([]Folder, error) {
	var resp FilesResp
	err := c.request(ctx, webAPI+"/files", http.MethodGet, func(req *resty.Request) {
		req.SetQueryParams(map[string]string{
			"cid":      parentID,
			"o":        "file_name",
			"asc":      "1",
			"offset":   "0",
			"limit":    "1150",
			"show_dir": "1",
		})
	}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.State {
		return nil, errors.Errorf("list failed: %s", resp.Error)
	}
	folders := make([]Folder, 0, len(resp.Data))
	for _, f := range resp.Data {
		if f.FileID != "" {
			continue // files carry fid, folders only cid
		}
		folders = append(folders, Folder{ID: f.CatID, Name: f.Name})
	}
	return folders, nil
}

// MakeFolder creates a subfolder, used by auto-naming on task creation.
func (c *Client) MakeFolder(ctx context.Context, parentID, name string) (*Folder, error) {
	var resp AddFolderResp
	err := c.request(ctx, webAPI+"/files/add", http.MethodPost, func(req *resty.Request) {
		req.SetFormData(map[string]string{
			"pid":   parentID,
			"cname": name,
		})
	}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.State {
		return nil, errors.Errorf("create folder failed: %s", resp.Error)
	}
	return &Folder{ID: resp.CatID, Name: resp.Name}, nil
}
