// Package keys описывает клавиши и контракт сервиса горячих клавиш
// без привязки к конкретной платформенной библиотеке.
package keys

// Key представляет клавишу.
type Key string

const (
	KeyF1      Key = "f1"
	KeyF2      Key = "f2"
	KeyF3      Key = "f3"
	KeyF4      Key = "f4"
	KeyF5      Key = "f5"
	KeyF6      Key = "f6"
	KeyNumLock Key = "numlock"
)

// Handle идентифицирует одну активную привязку клавиши.
type Handle uint64

// Binder привязывает клавишу к обработчику и снимает привязку.
//
// Обработчик вызывается в горутине сервиса и должен только ставить
// задачу в очередь. При suppress нажатие не доходит до других приложений,
// иначе клавиша продолжает работать как обычно. Unbind для неизвестного
// handle возвращает nil.
type Binder interface {
	Bind(key Key, fn func(), suppress bool) (Handle, error)
	Unbind(h Handle) error
}
