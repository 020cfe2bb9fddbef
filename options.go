package fluentsql

import (
	"github.com/biyonik/go-fluent-sqlite/dialect"
	"github.com/prometheus/client_golang/prometheus"
)

// -----------------------------------------------------------------------------
//  DB ve Builder için fonksiyonel seçenekler (functional options).
//
//  Her With* fonksiyonu tek bir davranışı değiştirir; verilmeyen ayarlar
//  NewDB / NewBuilder içinde varsayılanlarına çekilir.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
//  -- @linkedin linkedin.com/in/biyonik
//  -- @email    ahmet.altun60@gmail.com
// -----------------------------------------------------------------------------

// Option bir *DB örneğini yapılandırır.
type Option func(*DB)

// WithGrammar, SQL derleyicisini değiştirir. Varsayılan dialect.SQLite().
func WithGrammar(g dialect.Grammar) Option {
	return func(d *DB) {
		d.grammar = g
	}
}

// WithScanner, satır dönüştürücüyü değiştirir. Varsayılan DefaultScanner.
func WithScanner(s Scanner) Option {
	return func(d *DB) {
		d.scanner = s
	}
}

// WithDebug, başarılı ifadelerin de loglanmasını açar. Hatalar her zaman
// loglanır.
//
// Örnek:
//
//	db, err := fluentsql.Open("app.db", fluentsql.WithDebug(true))
func WithDebug(enabled bool) Option {
	return func(d *DB) {
		d.debug = enabled
	}
}

// WithLogger özel bir logger tanımlar.
//
// Örnek:
//
//	db, err := fluentsql.Open("app.db",
//	    fluentsql.WithDebug(true),
//	    fluentsql.WithLogger(fluentsql.NewSlogLogger(slog.Default())),
//	)
func WithLogger(logger Logger) Option {
	return func(d *DB) {
		if logger == nil {
			logger = NopLogger{}
		}
		d.logger = logger
	}
}

// WithTypeCheck, INSERT değerlerinin tablo şemasıyla karşılaştırılmasını açar.
func WithTypeCheck(enabled bool) Option {
	return func(d *DB) {
		d.typeCheck = enabled
	}
}

// WithMetrics, ifade sayaçlarını ve süre histogramını reg'e kaydeder. Aynı
// registry'ye ikinci kez kayıt yapılırsa mevcut kolektörler paylaşılır.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(d *DB) {
		d.metrics = NewMetrics(reg)
	}
}

// WithClock, created_at / modified_at için kullanılan saati değiştirir.
func WithClock(c Clock) Option {
	return func(d *DB) {
		d.clock = c
	}
}

// WithIDGenerator, id kolonunun üretecini değiştirir.
//
// Örnek:
//
//	db, err := fluentsql.Open("app.db", fluentsql.WithIDGenerator(fluentsql.UUIDGenerator{}))
func WithIDGenerator(g IDGenerator) Option {
	return func(d *DB) {
		d.ids = g
	}
}

// BuilderOption yalnızca tek bir Builder'ı yapılandırır.
type BuilderOption func(*Builder)

// WithBuilderClock, Builder'ın zaman damgası saatini değiştirir.
func WithBuilderClock(c Clock) BuilderOption {
	return func(b *Builder) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithBuilderIDGenerator, Builder'ın id üretecini değiştirir.
func WithBuilderIDGenerator(g IDGenerator) BuilderOption {
	return func(b *Builder) {
		if g != nil {
			b.ids = g
		}
	}
}

// WithBuilderGrammar, Builder'ın derleyicisini değiştirir.
func WithBuilderGrammar(g dialect.Grammar) BuilderOption {
	return func(b *Builder) {
		if g != nil {
			b.grammar = g
		}
	}
}

func applyOptions(d *DB, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
}
