package index

import (
	"bytes"
	"errors"
	"strconv"
)

var errBadKey = errors.New("index: malformed key")

// key = relPath + 0x00 + mode + 0x00 + preserve("0"|"1")
func Key(relPath, mode string, preserveCode bool) []byte {
	flag := "0"
	if preserveCode {
		flag = "1"
	}
	buf := make([]byte, 0, len(relPath)+len(mode)+3)
	buf = append(buf, relPath...)
	buf = append(buf, 0x00)
	buf = append(buf, mode...)
	buf = append(buf, 0x00)
	buf = append(buf, flag...)
	return buf
}

func splitKey(k []byte) (relPath, mode string, preserveCode bool, err error) {
	parts := bytes.Split(k, []byte{0x00})
	if len(parts) != 3 || len(parts[0]) == 0 {
		return "", "", false, errBadKey
	}
	preserveCode, err = strconv.ParseBool(string(parts[2]))
	if err != nil {
		return "", "", false, errBadKey
	}
	return string(parts[0]), string(parts[1]), preserveCode, nil
}
