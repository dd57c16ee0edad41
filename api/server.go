package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"

	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"neighborloop/adapters/gemini"
	internalS3 "neighborloop/adapters/s3"
	"neighborloop/models"
)

const (
	// embeddingModel 是索引與查詢共用的文字向量模型，
	// 兩邊必須使用相同模型，否則距離沒有意義
	embeddingModel = "text-embedding-005"
	// feedLimit 是清單頁面一次返回的物品數量上限
	feedLimit = 20
	// searchLimit 是語意搜尋返回的結果數量上限
	searchLimit = 5
	// maxImageBytes 是刊登圖片的大小上限
	maxImageBytes = 5 << 20
)

type ServerImpl struct {
	s3Operator    *internalS3.S3Operator
	profiler      gemini.IProfiler
	relevanceGate RelevanceGate
	htmlChecker   *bluemonday.Policy
	db            *gorm.DB

	config ServerConfig
}

func NewServer(config ServerConfig) (*ServerImpl, error) {
	const op = "NewServer"

	// 初始化S3客戶端
	s3Cfg, err := awsCfg.LoadDefaultConfig(
		context.Background(),
		awsCfg.WithBaseEndpoint(config.S3.Endpoint),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(config.S3.AccessKeyID, config.S3.SecretAccessKey, "")),
		awsCfg.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to load AWS config, err=%w", op, err)
	}
	s3Operator, err := internalS3.NewS3Operator(s3.NewFromConfig(s3Cfg), config.S3.Bucket, config.S3.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to create S3 operator, err=%w", op, err)
	}

	// 初始化Gemini客戶端
	profiler, err := gemini.NewProfiler(context.Background(), config.Gemini.APIKey, config.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to create item profiler, err=%w", op, err)
	}

	// 初始化資料庫連線
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s", config.DB.User, config.DB.Password, config.DB.Host, config.DB.Port, config.DB.Database, config.DB.Schema)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: config.DB.Schema + ".",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to connect to database, err=%w", op, err)
	}
	// 啟動時確認連線可用，連線池之後會在重用前自行檢查連線
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to get database handle, err=%w", op, err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("[%s] Fail to ping database, err=%w", op, err)
	}

	// 選擇搜尋用的相關性過濾器
	var relevanceGate RelevanceGate = AIGate{ModelID: config.Gemini.Model}
	if config.Search.RelevanceGate == "none" {
		relevanceGate = AcceptAllGate{}
	}

	return &ServerImpl{
		s3Operator:    s3Operator,
		profiler:      profiler,
		relevanceGate: relevanceGate,
		htmlChecker:   bluemonday.StrictPolicy(),
		db:            db,
		config:        config,
	}, nil
}

func (impl *ServerImpl) Close() {
	if sqlDB, err := impl.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (impl *ServerImpl) RegisterRoutes(router *gin.Engine) {
	router.GET("/", impl.Home)
	router.GET("/api/items", impl.GetItems)
	router.POST("/api/list-item", impl.ListItem)
	router.GET("/api/search", impl.Search)
	router.POST("/api/swipe", impl.Swipe)
	router.GET("/api/matches", impl.GetMatches)
}

type itemSummary struct {
	ID       uuid.UUID `json:"id" gorm:"column:item_id"`
	Title    string    `json:"title"`
	Bio      string    `json:"bio"`
	Category string    `json:"category"`
	ImageURL string    `json:"image_url" gorm:"column:image_url"`
}

// fetchAvailableItems 取得最新的可配對物品，頁面與API共用同一個查詢
func (impl *ServerImpl) fetchAvailableItems() ([]itemSummary, error) {
	var items []itemSummary
	result := impl.db.Model(&models.Item{}).
		Select("item_id, title, bio, category, image_url").
		Where("status = ?", models.ItemStatusAvailable).
		Order("created_at DESC").
		Limit(feedLimit).
		Scan(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

// Render the swipe deck page
// (GET /)
func (impl *ServerImpl) Home(c *gin.Context) {
	const op = "Home"
	items, err := impl.fetchAvailableItems()
	if err != nil {
		abortWithError(c, op, &DependencyError{Message: "Failed to fetch items", Err: err})
		return
	}
	c.HTML(http.StatusOK, "app.html", gin.H{"Items": items})
}

// List available items
// (GET /api/items)
func (impl *ServerImpl) GetItems(c *gin.Context) {
	const op = "GetItems"
	items, err := impl.fetchAvailableItems()
	if err != nil {
		abortWithError(c, op, &DependencyError{Message: "Failed to fetch items", Err: err})
		return
	}
	if items == nil {
		items = []itemSummary{}
	}
	c.JSON(http.StatusOK, items)
}

// Create a new listing from an uploaded photo
// (POST /api/list-item)
func (impl *ServerImpl) ListItem(c *gin.Context) {
	const op = "ListItem"
	// 檢查是否有上傳圖片
	fileHeader, err := c.FormFile("image")
	if err != nil {
		abortWithError(c, op, &ValidationError{Message: "No image provided"})
		return
	}
	// 表單欄位缺少時使用預設值，自由文字欄位需經過消毒
	providerName := impl.htmlChecker.Sanitize(c.DefaultPostForm("provider_name", "Anonymous"))
	providerPhone := impl.htmlChecker.Sanitize(c.DefaultPostForm("provider_phone", "No Phone"))
	itemTitle := impl.htmlChecker.Sanitize(c.DefaultPostForm("item_title", "No Title"))

	// 限制圖片
	// 	1. 小於5MB
	// 	2. MIME類型為不包含腳本的圖片檔案
	src, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, op, &ValidationError{Message: "Invalid image upload"})
		return
	}
	defer src.Close()
	imageBytes, err := io.ReadAll(internalS3.NewMaxSizeReader(src, maxImageBytes))
	if errors.As(err, &internalS3.ErrReachLimitType) {
		abortWithError(c, op, &ValidationError{Message: err.Error()})
		return
	}
	if err != nil {
		abortWithError(c, op, &DependencyError{Message: "Failed to read image", Err: err})
		return
	}
	mimeType := http.DetectContentType(imageBytes)
	if secure, _ := internalS3.CheckSecureImageAndGetExtension(mimeType); !secure {
		abortWithError(c, op, &ValidationError{Message: fmt.Sprintf("Invalid image type: %s", mimeType)})
		return
	}

	// 上傳圖片到物件儲存；失敗就中止，不碰資料庫
	imageURL, err := impl.s3Operator.UploadListingImage(c.Request.Context(), internalS3.ListingObjectKey(fileHeader.Filename), mimeType, imageBytes)
	if err != nil {
		abortWithError(c, op, &DependencyError{Message: "Image upload failed", Err: err})
		return
	}

	// 請模型為物品產生簡介
	profile, err := impl.profiler.GenerateItemProfile(c.Request.Context(), imageBytes, mimeType)
	if err != nil {
		abortWithError(c, op, &DependencyError{Message: "Operation Failed", Err: err})
		return
	}
	bio := profile.Bio
	if bio == "" {
		bio = "No bio provided."
	}
	category := profile.Category
	if category == "" {
		category = "Misc"
	}

	// 寫入物品，向量由資料庫端的embedding函式以標題加簡介計算
	// 標題一律採用表單欄位，模型產生的內容只用於簡介和分類
	ownerID := uuid.New()
	var itemID uuid.UUID
	result := impl.db.Raw(`
		INSERT INTO items (owner_id, provider_name, provider_phone, title, bio, category, image_url, status, item_vector)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'available', embedding(?, ? || ' ' || ?)::vector)
		RETURNING item_id`,
		ownerID, providerName, providerPhone, itemTitle, bio, category, imageURL,
		embeddingModel, itemTitle, bio,
	).Scan(&itemID)
	if result.Error != nil {
		// 圖片已經上傳成功，這筆物件會成為孤兒，留給操作者清理
		slog.Warn("Listing insert failed after upload, stored object is orphaned", slog.String("op", op), slog.String("url", imageURL))
		abortWithError(c, op, &DependencyError{Message: "Operation Failed", Err: result.Error})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"item_id":   itemID.String(),
		"image_url": imageURL,
		"profile":   profile,
	})
}

type searchHit struct {
	ID       uuid.UUID `json:"id" gorm:"column:item_id"`
	Title    string    `json:"title"`
	Bio      string    `json:"bio"`
	Category string    `json:"category"`
	ImageURL string    `json:"image_url" gorm:"column:image_url"`
	Score    float64   `json:"score"`
}

// Semantic search over available items
// (GET /api/search)
func (impl *ServerImpl) Search(c *gin.Context) {
	const op = "Search"
	// 沒有查詢字串時直接返回空清單，不觸發任何AI或資料庫呼叫
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusOK, []searchHit{})
		return
	}
	slog.Info("Search query", slog.String("op", op), slog.String("query", query))

	var hits []searchHit
	if result := impl.buildSearchQuery(query).Scan(&hits); result.Error != nil {
		abortWithError(c, op, &DependencyError{Message: "Search failed", Err: result.Error})
		return
	}
	hits = lo.Map(hits, func(hit searchHit, _ int) searchHit {
		hit.Score = roundScore(hit.Score)
		return hit
	})
	if hits == nil {
		hits = []searchHit{}
	}
	c.JSON(http.StatusOK, hits)
}

// buildSearchQuery 組合語意搜尋的SQL
// 以餘弦距離排序，1 - 距離 = 相似度分數；
// 相關性過濾器的條件以AND併入同一個WHERE子句，
// 所有動態內容都透過參數綁定
func (impl *ServerImpl) buildSearchQuery(query string) *gorm.DB {
	sql := `
		SELECT item_id, title, bio, category, image_url,
		       1 - (item_vector <=> embedding(?, ?)::vector) AS score
		FROM items
		WHERE status = 'available' AND item_vector IS NOT NULL`
	args := []any{embeddingModel, query}
	if gateSQL, gateArgs := impl.relevanceGate.Predicate(query); gateSQL != "" {
		sql += " AND " + gateSQL
		args = append(args, gateArgs...)
	}
	sql += `
		ORDER BY item_vector <=> embedding(?, ?)::vector
		LIMIT ?`
	args = append(args, embeddingModel, query, searchLimit)
	return impl.db.Raw(sql, args...)
}

// roundScore 將相似度分數四捨五入到小數點後三位
func roundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}

type swipeRequest struct {
	Direction string `json:"direction"`
	ItemID    string `json:"item_id"`
}

// Record a swipe and transition the item on a match
// (POST /api/swipe)
func (impl *ServerImpl) Swipe(c *gin.Context) {
	const op = "Swipe"
	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, op, &ValidationError{Message: "Invalid swipe data"})
		return
	}
	direction := models.SwipeDirection(req.Direction)
	itemID, err := uuid.Parse(req.ItemID)
	if req.ItemID == "" || !direction.Valid() || err != nil {
		abortWithError(c, op, &ValidationError{Message: "Invalid swipe data"})
		return
	}
	// 沒有登入機制，每次滑動都產生一個新的使用者識別碼
	swiperID := uuid.New()
	isMatch := direction == models.SwipeDirectionRight

	var provider *models.Item
	txErr := impl.db.Transaction(func(tx *gorm.DB) error {
		// 記錄滑動
		swipe := models.Swipe{
			SwiperID:  swiperID,
			ItemID:    itemID,
			Direction: direction,
			IsMatch:   isMatch,
		}
		if result := tx.Create(&swipe); result.Error != nil {
			return fmt.Errorf("fail to record swipe, err=%w", result.Error)
		}
		if !isMatch {
			return nil
		}
		// 取得提供者的聯絡資訊；物品不存在時視為未配對，不算錯誤
		var item models.Item
		result := tx.Model(&models.Item{}).
			Select("provider_name, provider_phone").
			Where("item_id = ?", itemID).
			First(&item)
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("fail to fetch provider info, err=%w", result.Error)
		}
		if result.Error == nil {
			provider = &item
		}
		// 無條件把物品標記為已配對，重複的右滑效果相同
		if result := tx.Model(&models.Item{}).Where("item_id = ?", itemID).Update("status", models.ItemStatusMatched); result.Error != nil {
			return fmt.Errorf("fail to update item status, err=%w", result.Error)
		}
		return nil
	})
	if txErr != nil {
		abortWithError(c, op, &DependencyError{Message: "Database error during swipe", Err: txErr})
		return
	}

	if isMatch && provider != nil {
		c.JSON(http.StatusOK, gin.H{
			"is_match":       true,
			"provider_name":  provider.ProviderName,
			"provider_phone": provider.ProviderPhone,
			"swiper_id":      swiperID.String(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"is_match":  false,
		"swiper_id": swiperID.String(),
	})
}

type matchRow struct {
	ItemID        uuid.UUID `json:"item_id" gorm:"column:item_id"`
	ItemTitle     string    `json:"item_title" gorm:"column:title"`
	ItemImageURL  string    `json:"item_image_url" gorm:"column:image_url"`
	ProviderName  string    `json:"provider_name"`
	ProviderPhone string    `json:"provider_phone"`
}

// List matches for a swiper
// (GET /api/matches)
//
// 目前的身分模型每次請求都產生新的swiper_id，所以正常的客戶端流程
// 永遠不會查到任何配對；保留這個端點是記錄原有的行為，不是bug
func (impl *ServerImpl) GetMatches(c *gin.Context) {
	const op = "GetMatches"
	rawSwiperID := c.Query("swiper_id")
	if rawSwiperID == "" {
		abortWithError(c, op, &ValidationError{Message: "swiper_id is required"})
		return
	}
	swiperID, err := uuid.Parse(rawSwiperID)
	if err != nil {
		abortWithError(c, op, &ValidationError{Message: "swiper_id is invalid"})
		return
	}

	var matches []matchRow
	result := impl.db.Raw(`
		SELECT s.item_id, i.title, i.image_url, i.provider_name, i.provider_phone
		FROM swipes s
		JOIN items i ON s.item_id = i.item_id
		WHERE s.swiper_id = ? AND s.is_match = true AND i.status = 'matched'`,
		swiperID,
	).Scan(&matches)
	if result.Error != nil {
		abortWithError(c, op, &DependencyError{Message: "Failed to fetch matches", Err: result.Error})
		return
	}
	if matches == nil {
		matches = []matchRow{}
	}
	c.JSON(http.StatusOK, matches)
}
