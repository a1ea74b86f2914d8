package stores

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"

	goBlog "github.com/MrEthical07/goBlog"
)

const userRecordVersionV1 = 1

var errUserRecordCorrupt = errors.New("user record corrupt")

func encodeUserRecord(u *goBlog.User) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(userRecordVersionV1)
	if err := binary.Write(&buf, binary.BigEndian, u.ID); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, u.CreatedAt.UnixNano()); err != nil {
		return nil, err
	}
	for _, field := range []string{u.Username, u.Email, u.PasswordHash} {
		if len(field) > 65535 {
			return nil, errors.New("user record field too long")
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(field))); err != nil {
			return nil, err
		}
		buf.WriteString(field)
	}

	return buf.Bytes(), nil
}

func decodeUserRecord(data []byte) (*goBlog.User, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, errUserRecordCorrupt
	}
	if version != userRecordVersionV1 {
		return nil, errors.New("invalid user record version")
	}

	var (
		id      int64
		created int64
	)
	if err := binary.Read(reader, binary.BigEndian, &id); err != nil {
		return nil, errUserRecordCorrupt
	}
	if err := binary.Read(reader, binary.BigEndian, &created); err != nil {
		return nil, errUserRecordCorrupt
	}

	var fields [3]string
	for i := range fields {
		var n uint16
		if err := binary.Read(reader, binary.BigEndian, &n); err != nil {
			return nil, errUserRecordCorrupt
		}
		raw := make([]byte, n)
		if _, err := io.ReadFull(reader, raw); err != nil {
			return nil, errUserRecordCorrupt
		}
		fields[i] = string(raw)
	}
	if reader.Len() != 0 {
		return nil, errUserRecordCorrupt
	}

	return &goBlog.User{
		ID:           id,
		Username:     fields[0],
		Email:        fields[1],
		PasswordHash: fields[2],
		CreatedAt:    time.Unix(0, created).UTC(),
	}, nil
}
