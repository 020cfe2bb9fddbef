package fluentsql

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

/*
 * ----------------------------------------------------------------------------
 * FLUENTSQL TYPE DEFINITIONS
 * ----------------------------------------------------------------------------
 *
 * Ham `sql.Result` nesneleri, sayfalama meta verisi ve sorgu loglama
 * sözleşmesi burada tanımlanır. Bağlantı ayarları config.go içindedir.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * @linkedin linkedin.com/in/biyonik
 * @email ahmet.altun60@gmail.com
 * ----------------------------------------------------------------------------
 */

// ----------------------------------------------------------------------------
// Query Result Types
// ----------------------------------------------------------------------------

// QueryResult, bir INSERT, UPDATE veya DELETE işleminin sonucunu sarmalar.
// INSERT için ID, üretilen id kolonunun değeridir.
type QueryResult struct {
	ID     string
	result sql.Result
}

// NewQueryResult, ham `sql.Result` nesnesinden bir QueryResult türetir.
func NewQueryResult(result sql.Result) *QueryResult {
	return &QueryResult{result: result}
}

// LastInsertID, SQLite'ın son eklenen satır için verdiği rowid'yi döndürür.
// Üretilen metin id için ID alanını kullanın.
func (r *QueryResult) LastInsertID() (int64, error) {
	if r == nil || r.result == nil {
		return 0, ErrNoRows
	}
	return r.result.LastInsertId()
}

// RowsAffected, sorgudan etkilenen satır sayısını bildirir.
func (r *QueryResult) RowsAffected() (int64, error) {
	if r == nil || r.result == nil {
		return 0, ErrNoRows
	}
	return r.result.RowsAffected()
}

// ----------------------------------------------------------------------------
// Pagination Types
// ----------------------------------------------------------------------------

// Pagination, DB.Paginate sonucunun sayfa meta verisidir.
type Pagination struct {
	Page       int   // Mevcut sayfa numarası (1'den başlar)
	PerPage    int   // Sayfa başına kayıt sayısı
	Total      int64 // Toplam kayıt sayısı
	TotalPages int   // Toplam sayfa sayısı
	HasMore    bool  // Sonraki sayfa var mı
}

// NewPagination, geçersiz parametreleri varsayılanlara çekerek bir Pagination
// oluşturur.
func NewPagination(page, perPage int, total int64) *Pagination {
	if perPage <= 0 {
		perPage = 15
	}
	if page <= 0 {
		page = 1
	}

	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}

	return &Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// Offset, sayfanın başlangıç satırını döndürür.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// HasPrev reports whether there is a previous page.
func (p *Pagination) HasPrev() bool {
	return p.Page > 1
}

// HasNext reports whether there is a next page.
func (p *Pagination) HasNext() bool {
	return p.HasMore
}

// Page, bir sayfa kayıt ve meta verisidir.
type Page struct {
	Records    []Record
	Pagination *Pagination
}

// ----------------------------------------------------------------------------
// Logger Interface
// ----------------------------------------------------------------------------

// Logger, çalışan SQL ifadelerini, parametrelerini, süresini ve hatasını
// alır. Başarılı ifadeler yalnızca debug modunda, hatalar her zaman loglanır.
type Logger interface {
	Log(query string, args []any, duration time.Duration, err error)
}

// NopLogger tüm logları yutar.
type NopLogger struct{}

// Log, NopLogger'ın implementasyonudur. Gelen tüm veriyi yok sayar.
func (NopLogger) Log(string, []any, time.Duration, error) {}

// SlogLogger adapts a *slog.Logger to Logger. Successful statements are
// logged at debug level, failures at error level.
type SlogLogger struct {
	Logger *slog.Logger
}

// NewSlogLogger returns a Logger writing to l, or to slog.Default() when l
// is nil.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{Logger: l}
}

// Log implements Logger.
func (s *SlogLogger) Log(query string, args []any, duration time.Duration, err error) {
	attrs := []slog.Attr{
		slog.String("query", query),
		slog.Any("args", args),
		slog.Duration("duration", duration),
	}
	level := slog.LevelDebug
	msg := "fluentsql: statement executed"
	if err != nil {
		level = slog.LevelError
		msg = "fluentsql: statement failed"
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.Logger.LogAttrs(context.Background(), level, msg, attrs...)
}
