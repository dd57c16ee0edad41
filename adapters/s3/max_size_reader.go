package s3

import (
	"fmt"
	"io"
)

var ErrReachLimitType *ReachLimitError

type ReachLimitError struct {
	MaxBytes int64
}

func (e *ReachLimitError) Error() string {
	return fmt.Sprintf("reach limit of %s", FormatBytes(e.MaxBytes))
}

// NewMaxSizeReader 建立一個限制讀取總長度的 Reader，
// 用於阻擋過大的圖片上傳；讀取超過 maxSize 時返回
// ReachLimitError。
func NewMaxSizeReader(r io.Reader, maxSize int64) io.Reader {
	return &maxSizeReader{reader: r, limit: maxSize, remain: maxSize}
}

type maxSizeReader struct {
	reader io.Reader
	limit  int64 // 限制的總長度
	remain int64 // 還可以讀取的長度
}

func (r *maxSizeReader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	// 最多只需要讀到剩餘額度加1個位元組，
	// 就足以判斷來源是否超過限制
	if int64(len(p)) > r.remain+1 {
		p = p[:r.remain+1]
	}
	n, err = r.reader.Read(p)

	// 沒超過額度，正常返回
	if int64(n) <= r.remain {
		r.remain -= int64(n)
		return n, err
	}

	// 超過額度，截斷到額度內並返回超限錯誤
	n = int(r.remain)
	r.remain = 0
	return n, &ReachLimitError{r.limit}
}
