package drive

type BaseResp struct {
	State   bool   `json:"state"`
	Error   string `json:"error"`
	ErrNo   int    `json:"errno"`
	ErrType string `json:"errtype"`
}

type ShareSnapResp struct {
	BaseResp
	Data struct {
		Count     int `json:"count"`
		ShareInfo struct {
			ShareTitle string `json:"share_title"`
		} `json:"shareinfo"`
		List []ShareFile `json:"list"`
	} `json:"data"`
}

// ShareFile carries fid for files and cid for directories, only one is set.
type ShareFile struct {
	FileID string `json:"fid"`
	CatID  string `json:"cid"`
	Name   string `json:"n"`
}

func (f ShareFile) ID() string {
	if f.FileID != "" {
		return f.FileID
	}
	return f.CatID
}

type FilesResp struct {
	BaseResp
	Data []ShareFile `json:"data"`
	Path []struct {
		CatID string `json:"cid"`
		Name  string `json:"name"`
	} `json:"path"`
}

type NavResp struct {
	State bool `json:"state"`
	Data  struct {
		UserName string `json:"user_name"`
	} `json:"data"`
}

type AddFolderResp struct {
	BaseResp
	CatID string `json:"cid"`
	Name  string `json:"cname"`
}

// ShareSnap is the provider-neutral view of a share's current content.
type ShareSnap struct {
	Title   string
	FileIDs []string
}

// TransferStatusExists marks the provider-side dedup outcome: the content was
// accepted before but did not land in the requested folder this time.
const TransferStatusExists = "exists"

type TransferResult struct {
	Success bool
	Count   int
	Status  string
	Message string
}

type Folder struct {
	ID   string `json:"cid"`
	Name string `json:"name"`
}
