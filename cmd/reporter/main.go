/* Copyright (c) 2025 cu-reporter authors
 * SPDX-License-Identifier: BSD-3-Clause */
package main

func main() {
    Execute()
}
