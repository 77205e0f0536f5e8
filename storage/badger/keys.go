package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/sift/core"
)

// Key prefixes for different data types
const (
	postRecordPrefix   = "pstrec"
	postPlatformPrefix = "pstpid"
	postDatePrefix     = "pstdat"
	postAuthorPrefix   = "pstaut"
	queryLogPrefix     = "qlgrec"
	queryLogDatePrefix = "qlgdat"
	queryLogIDSeq      = "qlgseq"
)

// makePostKey generates a key for a post by ID.
func makePostKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", postRecordPrefix, id))
}

// makePostPlatformKey generates a key for the platform post ID lookup.
// Format: prefix:postID
func makePostPlatformKey(postID string) []byte {
	return []byte(postPlatformPrefix + ":" + postID)
}

// makePostDateKey generates a composite key for the posted-at index.
// Format: prefix:timestamp:id
func makePostDateKey(postedAt time.Time, id core.ID) []byte {
	prefix := postDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(postedAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialPostDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialPostDateKey(postedAt time.Time) []byte {
	prefix := postDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(postedAt.UnixMicro()))
	return buf
}

// makePostAuthorKey generates a composite key for the author index.
// Format: prefix:username:timestamp:id
// The username is followed by a NUL byte so that one username is never a
// prefix of another's index entries.
func makePostAuthorKey(username string, postedAt time.Time, id core.ID) []byte {
	prefix := postAuthorPrefix + ":" + username
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 1 + 16
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	buf[offset] = 0
	offset++
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(postedAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialPostAuthorKey generates a partial key for author queries.
// Format: prefix:username
func makePartialPostAuthorKey(username string) []byte {
	prefix := postAuthorPrefix + ":" + username
	buf := make([]byte, len(prefix)+1)
	offset := copy(buf, []byte(prefix))
	buf[offset] = 0
	return buf
}

// makeQueryLogKey generates a key for a query log entry by ID.
func makeQueryLogKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", queryLogPrefix, id))
}

// makeQueryLogDateKey generates a composite key for the log time index.
// Format: prefix:timestamp:id
func makeQueryLogDateKey(executedAt time.Time, id core.ID) []byte {
	prefix := queryLogDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(executedAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialQueryLogDateKey generates a partial key for log time scans.
// Format: prefix:timestamp
func makePartialQueryLogDateKey(executedAt time.Time) []byte {
	prefix := queryLogDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(executedAt.UnixMicro()))
	return buf
}
