// Package pointcloud converts 8-bit images into colour point clouds and back.
//
// An Image is an (H, W, C) array of bytes stored row-major. Flatten turns it
// into an (H·W, C) gonum matrix with every value scaled into [0, 1]; Quantise
// performs the inverse: clip to [0, 1], rescale to [0, 255], round and reshape.
//
// Channel order is never interpreted. Whatever order the caller uses (RGB,
// BGR) is carried through unchanged.
package pointcloud
