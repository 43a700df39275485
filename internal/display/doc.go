// Package display implements the GTK4 layer-shell overlay surface.
//
// The render loop never touches GTK directly: it records a frame as a
// display list through the render.Context it gets from Begin, and Commit
// hands the finished list to the GTK main loop for replay inside each
// window's cairo draw callback. Only immutable frame data crosses
// between the two threads.
package display
