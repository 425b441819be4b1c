package specification

import "gorm.io/gorm"

// ByContentHash filters documents by exact content hash (the version identity).
type ByContentHash struct {
	Hash string
}

func (s ByContentHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content_hash = ?", s.Hash)
}

// ByFilename filters documents by exact filename. Several hash-versions of one
// filename may transiently coexist during supersession.
type ByFilename struct {
	Filename string
}

func (s ByFilename) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("filename = ?", s.Filename)
}

// ExcludingHash keeps records whose hash differs (supersession candidates share
// the filename but never the hash).
type ExcludingHash struct {
	Hash string
}

func (s ExcludingHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content_hash <> ?", s.Hash)
}
