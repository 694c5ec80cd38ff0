// Package ot fits optimal-transport mappings between two colour point clouds.
//
// Four estimators are provided, each returning a Mapping that can be applied
// to new points:
//
//   - LinearTransport: closed-form affine map between the Gaussian
//     approximations of the two clouds.
//   - SinkhornTransport: entropic-regularised coupling (Sinkhorn-Knopp).
//   - EMDTransport: exact earth mover's coupling.
//   - MappingTransport: coupling and kernel ridge map fitted jointly.
//
// Coupling based mappings send the fitted source samples to their barycentric
// image and move any other point by the displacement of its nearest fitted
// source sample. All estimators use uniform sample weights and a squared
// Euclidean ground cost.
package ot
