package cachedir

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// TagFileName 是标记文件的固定文件名，位于被标记目录的第一层。
const TagFileName = "CACHEDIR.TAG"

// Header 是 CACHEDIR.TAG 必须以之开头的 43 字节签名（无换行）。
var Header = []byte("Signature: 8a477f597d28d172789f06886806bc55")

// TagState 描述目录中 CACHEDIR.TAG 的状态，每次探测都重新计算。
type TagState int

const (
	// TagAbsent 表示目录存在但没有标记文件。
	TagAbsent TagState = iota
	// TagWrongHeader 表示标记文件存在，但内容与签名不一致。
	TagWrongHeader
	// TagPresent 表示标记文件存在且签名完全匹配。
	TagPresent
)

func (s TagState) String() string {
	switch s {
	case TagAbsent:
		return "absent"
	case TagWrongHeader:
		return "wrong_header"
	case TagPresent:
		return "present"
	default:
		return "unknown"
	}
}

// GetTagState 探测 directory 的标记状态。
//
// 标记文件不存在时，仅当 directory 本身是目录才返回 TagAbsent；目录缺失或不可访问
// 时返回原始错误，调用方据此区分“没有标记”和“无从探测”。其它 I/O 错误原样返回。
func GetTagState(directory string) (TagState, error) {
	f, err := os.Open(filepath.Join(directory, TagFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			info, statErr := os.Stat(directory)
			if statErr != nil {
				return TagAbsent, statErr
			}
			if !info.IsDir() {
				return TagAbsent, err
			}
			return TagAbsent, nil
		}
		return TagAbsent, err
	}
	defer f.Close()

	buf := make([]byte, len(Header))
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return TagAbsent, err
	}
	if n == len(Header) && bytes.Equal(buf, Header) {
		return TagPresent, nil
	}
	return TagWrongHeader, nil
}

// IsTagged 是 GetTagState 的布尔视图：仅 TagPresent 为 true。
func IsTagged(directory string) (bool, error) {
	state, err := GetTagState(directory)
	if err != nil {
		return false, err
	}
	return state == TagPresent, nil
}

// AddTag 在已存在的 directory 中以 create-only 方式写入标记文件。
// 已有任何内容的 CACHEDIR.TAG 时返回 fs.ErrExist 类错误，绝不覆盖。
func AddTag(directory string) error {
	f, err := os.OpenFile(filepath.Join(directory, TagFileName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	_, err = f.Write(Header)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	return err
}

// EnsureTag 幂等地保证标记文件存在：已存在（无论内容）视为成功。
func EnsureTag(directory string) error {
	if err := AddTag(directory); err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	return nil
}
