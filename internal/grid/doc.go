// Package grid is the view engine behind every datagrid presentation.
//
// A grid takes a raw row set, a column schema and a bundle of independent
// interaction states (filters, sort, page, scroll viewport, selection,
// column widths and visibility) and turns them into one immutable
// RenderModel. The pipeline order is fixed:
//
//	filter -> sort -> paginate -> virtualize -> annotate
//
// Each stage can be switched off through Options. Compose is a pure
// function of its inputs; Grid is the stateful owner a host keeps around
// for the lifetime of a view, translating interaction events into state
// mutations and firing notifications.
//
// The only time-based behavior is the filter debounce, which runs on an
// injectable Scheduler so it can be driven deterministically in tests.
package grid
