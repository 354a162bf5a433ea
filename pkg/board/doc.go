// Package board models whiteboard documents and keeps them in sync with a
// block store.
//
// # Documents
//
// A [Document] belongs to a workspace and holds pages. Each [Page] maps shape
// ids to [Shape] values and binding ids to [Binding] values. Documents are
// read from and written to JSON in the same layout the canvas uses, so a page
// exported from the editor can be rendered without conversion.
//
// # Blocks
//
// Persistent storage is a flat set of [Block] records behind the
// [BlockStore] interface. The page itself is the root block; every shape is a
// child block whose "shapeProps" property holds the shape JSON, and the root
// block's "bindings" property holds the page bindings.
//
// # Sync
//
// [Syncer.ApplyPageChange] writes a batch of canvas changes to the store:
//
//	syncer := board.NewSyncer(store, logger)
//	res, err := syncer.ApplyPageChange(ctx, board.PageChange{
//	    Workspace:   "ws",
//	    RootBlockID: "root",
//	    Shapes:      map[string]*board.Shape{"shape-1": shape, "shape-2": nil},
//	})
//
// A nil shape deletes its block. [Syncer.LoadPage] reads the page back.
package board
