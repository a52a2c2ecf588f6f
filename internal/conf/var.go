package conf

var (
	Conf *Config

	// DataDir is resolved by the cli flags before InitConfig runs.
	DataDir string
	Debug   bool
)

type ContextKey string

const (
	UserKey ContextKey = "user"
)

// Setting keys. Settings live in the settings table and are operator-editable
// through the config API.
const (
	SettingCookie         = "cookie"
	SettingCookieUserName = "cookie_user_name"
	SettingIndexEndpoint  = "index_endpoint"
	SettingIndexToken     = "index_token"
	SettingMountPath      = "index_mount_path"
	SettingRootFolderID   = "root_folder_id"
)

const (
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
	StatusRunning   = "running"
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusError     = "error"
	StatusStopped   = "stopped"
)
