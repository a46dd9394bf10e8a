// Command crd manages the download queue and fetches normalized subtitle
// scripts for Crunchyroll and ADN episodes.
package main
