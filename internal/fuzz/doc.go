
// Package fuzztests houses Go fuzz harnesses for the per-file pipeline
// (source -> lexer -> blocks/imports -> annotate -> edit). They smoke test
// robustness: no panics, byte-exact round trips, structural invariants.
//
// Назначение: прогонять произвольные байты через токенизатор и аннотатор.
//
// Не делает: запуск type checker, запись файлов, CLI.

package fuzztests
