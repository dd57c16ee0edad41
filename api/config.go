package api

type ServerConfig struct {
	Gemini GeminiConfig
	S3     S3Config
	DB     DBConfig
	Search SearchConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	Bucket          string
	PublicBaseURL   string
}

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     int
	Database string
	Schema   string
}

type SearchConfig struct {
	// RelevanceGate 選擇搜尋時使用的相關性過濾器，
	// "ai" 使用資料庫內建的AI判斷函式，"none" 只依向量距離排序
	RelevanceGate string
}
