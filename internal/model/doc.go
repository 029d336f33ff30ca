// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go struct representation of the node type
// catalog. Its core purpose is to create a strongly-typed, in-memory model
// of the field contracts declared in .hcl node manifests.
//
// # Core Concepts
//
// The model is built around a few key structures:
//
//   - Catalog: The root container representing every node type known to
//     the editor. It aggregates all `node` blocks parsed from one or more
//     .hcl manifest files.
//
//   - NodeType: The reusable definition of a node. It names the fields a
//     node instance carries and preserves their declaration order.
//
//   - Template: The contract for a single field slot. It fixes the field's
//     kind, its default value, and the constraints a value must satisfy.
//
// Why a separate model package?
//
// Parsing is the only moment the system sees raw HCL. Everything past this
// package works with validated Go values: the store seeds slots from
// templates, editors render controls from templates, and workflow import
// decodes documents against templates. Pushing every structural check to
// load time means a catalog that loads is a catalog the rest of the editor
// can trust without re-validating.
package model
